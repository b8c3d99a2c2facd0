// Package metabox provides MetaBox, a descriptor for an editor panel and the
// single meta value it persists. A MetaBox registers a render entry point
// with the host, emits a security token with its fields, and installs a save
// handler that writes the submitted value once the token and the caller's
// capability check out.
package metabox
