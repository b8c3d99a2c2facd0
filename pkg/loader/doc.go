// Package loader reads post type definitions from JSON or YAML files, derives
// meta box definitions from OpenAPI component schemas, and builds the
// corresponding posttype and metabox descriptors against a host.
//
// A definition file looks like:
//
//	types:
//	  - id: book
//	    config:
//	      public: true
//	    labels:
//	      name: Books
//	    metaBoxes:
//	      - id: book_isbn
//	        single: true
//	        context: side
//	        priority: high
package loader
