// Package template defines the template rendering seam shared by the meta box
// field renderer and the reference host's edit screen. Adapters live in
// sub-packages.
package template
