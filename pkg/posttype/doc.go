// Package posttype provides PostType, a descriptor for a custom content type.
// It merges caller configuration over an existing host registration through
// fixed allow-lists, keeps an ordered set of meta boxes with optional
// placement overrides, and registers everything on the host's init hook.
//
//	books := posttype.New(site, "book", map[string]any{
//		"public": true,
//		"labels": map[string]string{"name": "Books"},
//	}, metabox.New(site, "book_isbn", metabox.WithSingle(true)))
//	books.SetMetaBoxPosition("book_isbn", posttype.Position{Context: "side", Priority: "high"})
//	books.Update(true)
package posttype
