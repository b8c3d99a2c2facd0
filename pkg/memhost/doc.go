// Package memhost is an in-process implementation of host.Host. It keeps
// registered post types, action handlers, and meta boxes in memory, issues
// HMAC based nonces, checks capabilities against the user carried on the
// context, reads request data from the context, and delegates meta storage
// to a metastore.Store. RenderEditScreen assembles the edit screen for a post
// the way a full host would, which makes the package suitable for tests,
// the CLI, and small embedded admin servers.
package memhost
