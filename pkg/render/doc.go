// Package render holds the built-in templates used to emit meta box markup
// and the hidden-field helpers shared by the meta box entry point and the
// reference host's edit screen.
package render
