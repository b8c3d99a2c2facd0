package memhost_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-posttypes/pkg/host"
	"github.com/goliatone/go-posttypes/pkg/memhost"
	"github.com/goliatone/go-posttypes/pkg/metabox"
	"github.com/goliatone/go-posttypes/pkg/posttype"
	"github.com/goliatone/go-posttypes/pkg/render"
)

func newBookSite(t *testing.T, options ...memhost.Option) (*memhost.Site, host.Post) {
	t.Helper()
	ctx := context.Background()

	site := memhost.New(append([]memhost.Option{memhost.WithSecret("screen-secret")}, options...)...)
	isbn := metabox.New(site, "book_isbn", metabox.WithSingle(true))
	books := posttype.New(site, "book", map[string]any{
		"public":      true,
		"description": `<script>alert(1)</script><em>Catalogue</em>`,
		"labels": map[string]any{
			"name":      "Books",
			"edit_item": "Edit <b>Book</b>",
		},
	}, isbn)
	books.SetMetaBoxPosition("book_isbn", posttype.Position{Context: metabox.ContextSide, Priority: metabox.PriorityHigh})
	books.Update(true)

	if err := site.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	post, err := site.InsertPost(host.Post{Type: "book", Title: "Dune"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	return site, post
}

func TestRenderEditScreen(t *testing.T) {
	ctx := context.Background()
	site, post := newBookSite(t)

	if err := site.UpdatePostMeta(ctx, post.ID, "_book_isbn", `97"8`, "ignored"); err != nil {
		t.Fatalf("seed meta: %v", err)
	}

	var out strings.Builder
	if err := site.RenderEditScreen(ctx, &out, post.ID); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := out.String()

	token := site.CreateNonce(ctx, "book_isbn_save")
	for _, want := range []string{
		`class="edit-screen post-type-book"`,
		`<h1>Edit Book</h1>`,
		`<p class="description"><em>Catalogue</em></p>`,
		`<input type="hidden" id="post_ID" name="post_ID" value="1" />`,
		`<input type="hidden" id="post_type" name="post_type" value="book" />`,
		`<div id="side-sortables" class="meta-box-sortables">`,
		`<div id="book_isbn" class="postbox postbox-side"><h2 class="hndle">Book Isbn</h2>`,
		`<input type="hidden" id="book_isbn_nonce" name="book_isbn_nonce" value="` + token + `" />`,
		`<input type="text" id="book_isbn-field" name="book_isbn" value="97&quot;8" />`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected output to contain %s\n%s", want, html)
		}
	}
	if strings.Contains(html, "alert(1)") {
		t.Fatalf("description must be sanitized:\n%s", html)
	}
}

func TestRenderEditScreenUnknownPost(t *testing.T) {
	site := memhost.New()
	var out strings.Builder
	if err := site.RenderEditScreen(context.Background(), &out, 42); err == nil {
		t.Fatalf("expected error for unknown post")
	}
}

func TestRenderedNonceRoundTripsThroughSave(t *testing.T) {
	site, post := newBookSite(t)
	user := &memhost.User{ID: 5, Caps: map[string]bool{"edit_posts": true}}
	ctx := memhost.WithUser(context.Background(), user)

	token := site.CreateNonce(ctx, "book_isbn_save")
	ctx = memhost.WithRequest(ctx, url.Values{
		"book_isbn_nonce": {token},
		"book_isbn":       {"9780441013593"},
	})

	if err := site.SavePost(ctx, post.ID); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := site.PostMeta(ctx, post.ID, "_book_isbn")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff([]string{"9780441013593"}, got); diff != "" {
		t.Fatalf("meta mismatch (-want +got):\n%s", diff)
	}
}

type stubSelector struct {
	selection *theme.Selection
	calls     []string
}

func (s *stubSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, name+"/"+variant)
	return s.selection, nil
}

func TestRenderEditScreenThemeOverrides(t *testing.T) {
	selector := &stubSelector{selection: &theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:    "acme",
			Version: "1.0.0",
			Templates: map[string]string{
				memhost.ThemeTemplatePanel: "acme/panel.tmpl",
			},
			Variants: map[string]theme.Variant{
				"dark": {Templates: map[string]string{
					memhost.ThemeTemplateScreen: "acme/screen.tmpl",
				}},
			},
		},
	}}
	files := fstest.MapFS{
		"acme/panel.tmpl":  {Data: []byte(`<section id="{{ box.id }}">{{ body|safe }}</section>`)},
		"acme/screen.tmpl": {Data: []byte(`<main data-theme="{{ theme }}/{{ variant }}">{% for section in sections %}{% for panel in section.panels %}{{ panel|safe }}{% endfor %}{% endfor %}</main>`)},
	}

	site, post := newBookSite(t,
		memhost.WithTemplatesFS(files),
		memhost.WithThemeSelector(selector, "acme", "dark"),
	)

	var out strings.Builder
	if err := site.RenderEditScreen(context.Background(), &out, post.ID); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := out.String()

	if !strings.HasPrefix(html, `<main data-theme="acme/dark"><section id="book_isbn"><input type="hidden" id="book_isbn_nonce"`) {
		t.Fatalf("unexpected themed output:\n%s", html)
	}
	if diff := cmp.Diff([]string{"acme/dark"}, selector.calls); diff != "" {
		t.Fatalf("selector calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderEditScreenTranslatesLabels(t *testing.T) {
	translator := render.TranslatorFunc(func(locale, key string, _ ...any) (string, error) {
		if locale != "es" {
			return "", nil
		}
		switch key {
		case "Edit <b>Book</b>":
			return "Editar libro", nil
		case "Book Isbn":
			return "ISBN del libro", nil
		}
		return "", nil
	})
	site, post := newBookSite(t, memhost.WithTranslator(translator, "es"))

	var out strings.Builder
	if err := site.RenderEditScreen(context.Background(), &out, post.ID); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := out.String()
	for _, want := range []string{`<h1>Editar libro</h1>`, `<h2 class="hndle">ISBN del libro</h2>`} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %s in\n%s", want, html)
		}
	}
}

func TestRenderEditScreenTemplateOverridesReachMetaBoxes(t *testing.T) {
	files := fstest.MapFS{
		"templates/input.tmpl": {Data: []byte(`<textarea name="{{ id }}">{{ value }}</textarea>`)},
		"templates/panel.tmpl": {Data: []byte(`<section id="{{ box.id }}">{{ body|safe }}</section>`)},
	}
	site, post := newBookSite(t, memhost.WithTemplatesFS(files))

	var out strings.Builder
	if err := site.RenderEditScreen(context.Background(), &out, post.ID); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := out.String()

	for _, want := range []string{`<section id="book_isbn">`, `<textarea name="book_isbn"></textarea>`} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %s in\n%s", want, html)
		}
	}
	if strings.Contains(html, `type="text"`) {
		t.Fatalf("embedded input rendered despite override:\n%s", html)
	}
}
