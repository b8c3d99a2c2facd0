// Package host declares the collaborator surface the post type and meta box
// descriptors delegate to. Every host-invoked callback (render entry points,
// save handlers, the meta box registration callback) is an explicit typed
// closure registered under a string identifier, so hosts can index, replace,
// and remove handlers without comparing function values.
package host
