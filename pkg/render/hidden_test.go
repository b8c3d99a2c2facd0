package render_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-posttypes/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" post_ID ": "42",
		"":          "ignored",
	}

	merged := render.MergeHiddenFields(base,
		render.NonceField("book_isbn_nonce", "token123"),
		render.Hidden("post_type", "book"),
		render.Hidden("  ", "skip"),
	)

	wantMerged := map[string]string{
		"post_ID":         "42",
		"book_isbn_nonce": "token123",
		"post_type":       "book",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields(merged)
	wantSorted := []render.HiddenField{
		{Name: "book_isbn_nonce", Value: "token123"},
		{Name: "post_ID", Value: "42"},
		{Name: "post_type", Value: "book"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteHiddenFieldsEscapesValues(t *testing.T) {
	engine, err := render.DefaultEngine()
	if err != nil {
		t.Fatalf("default engine: %v", err)
	}

	var b strings.Builder
	err = render.WriteHiddenFields(engine, &b, render.NonceField("isbn_nonce", `a"b`))
	if err != nil {
		t.Fatalf("write hidden fields: %v", err)
	}

	got := b.String()
	if !strings.Contains(got, `type="hidden"`) || !strings.Contains(got, `name="isbn_nonce"`) {
		t.Fatalf("unexpected hidden markup %q", got)
	}
	if strings.Contains(got, `value="a"b"`) {
		t.Fatalf("expected value to be escaped, got %q", got)
	}
}

func TestDefaultInputTemplate(t *testing.T) {
	engine, err := render.NewEngine()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	out, err := engine.RenderTemplate(render.TemplateInput, map[string]any{"id": "isbn", "value": "123"})
	if err != nil {
		t.Fatalf("render input: %v", err)
	}
	want := `<input type="text" id="isbn-field" name="isbn" value="123" />`
	if out != want {
		t.Fatalf("want %q, got %q", want, out)
	}
}

func TestNewEngineOverridesEmbeddedTemplates(t *testing.T) {
	override := fstest.MapFS{
		"templates/input.tmpl": {Data: []byte(`<textarea name="{{ id }}">{{ value }}</textarea>`)},
	}

	engine, err := render.NewEngine(override)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	out, err := engine.RenderTemplate(render.TemplateInput, map[string]any{"id": "isbn", "value": "123"})
	if err != nil {
		t.Fatalf("render input: %v", err)
	}
	if want := `<textarea name="isbn">123</textarea>`; out != want {
		t.Fatalf("want %q, got %q", want, out)
	}

	hidden, err := engine.RenderTemplate(render.TemplateHidden, map[string]any{"name": "n", "value": "v"})
	if err != nil {
		t.Fatalf("render hidden from embedded fallback: %v", err)
	}
	if !strings.Contains(hidden, `name="n"`) {
		t.Fatalf("unexpected hidden markup %q", hidden)
	}
}
