package gotemplate

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-posttypes/pkg/render/template"
)

// Engine is the go-template renderer.
type Engine = gotemplatepkg.Engine

var _ template.TemplateRenderer = (*Engine)(nil)

// Option configures the adapter before construction.
type Option func(*config)

type config struct {
	templates []fs.FS
	extension string
}

// WithFS loads templates from an fs.FS. Repeated calls stack filesystems in
// call order; the first one holding a template wins.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = append(cfg.templates, files)
		}
	}
}

// WithExtension overrides the template extension appended to bare names.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// New builds a go-template engine over the stacked filesystems with the
// cssident filter installed. At least one fs.FS is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".tmpl"}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if len(cfg.templates) == 0 {
		return nil, errors.New("gotemplate: need to provide an fs.FS")
	}

	var files fs.FS = layered(cfg.templates)
	if len(cfg.templates) == 1 {
		files = cfg.templates[0]
	}

	engine, err := gotemplatepkg.NewRenderer(
		gotemplatepkg.WithFS(files),
		gotemplatepkg.WithExtension(cfg.extension),
		gotemplatepkg.WithTemplateFunc(map[string]any{
			"cssident": pongo2.FilterFunction(filterCSSIdent),
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: %w", err)
	}
	return engine, nil
}

// layered opens a name from the first filesystem that has it.
type layered []fs.FS

func (l layered) Open(name string) (fs.File, error) {
	var firstErr error
	for _, files := range l {
		f, err := files.Open(name)
		if err == nil {
			return f, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// filterCSSIdent lowercases the input and keeps only characters valid in a
// class name, mapping underscores and spaces to dashes.
func filterCSSIdent(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	raw := strings.ToLower(strings.TrimSpace(in.String()))
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == '_' || r == ' ':
			b.WriteRune('-')
		}
	}
	return pongo2.AsValue(b.String()), nil
}
