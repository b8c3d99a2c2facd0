package render

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	rendertemplate "github.com/goliatone/go-posttypes/pkg/render/template"
	"github.com/goliatone/go-posttypes/pkg/render/template/gotemplate"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// Built-in template names.
const (
	TemplateInput  = "templates/input.tmpl"
	TemplateHidden = "templates/hidden.tmpl"
	TemplatePanel  = "templates/panel.tmpl"
	TemplateScreen = "templates/screen.tmpl"
	// TemplateDescribed is the default input followed by a help paragraph.
	TemplateDescribed = "templates/described.tmpl"
)

var (
	defaultEngineOnce sync.Once
	defaultEngine     rendertemplate.TemplateRenderer
	defaultEngineErr  error
)

// TemplatesFS exposes the embedded template bundle.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// NewEngine builds a template renderer over the embedded templates, layered
// under any extra filesystems supplied. Earlier filesystems win on name
// collisions.
func NewEngine(extra ...fs.FS) (rendertemplate.TemplateRenderer, error) {
	options := []gotemplate.Option{gotemplate.WithExtension(".tmpl")}
	for _, fsys := range extra {
		if fsys != nil {
			options = append(options, gotemplate.WithFS(fsys))
		}
	}
	options = append(options, gotemplate.WithFS(embeddedTemplates))

	engine, err := gotemplate.New(options...)
	if err != nil {
		return nil, fmt.Errorf("render: configure template engine: %w", err)
	}
	return engine, nil
}

// DefaultEngine returns a shared engine over the embedded templates.
func DefaultEngine() (rendertemplate.TemplateRenderer, error) {
	defaultEngineOnce.Do(func() {
		defaultEngine, defaultEngineErr = NewEngine()
	})
	return defaultEngine, defaultEngineErr
}
