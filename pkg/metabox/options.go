package metabox

import (
	"log/slog"

	"github.com/goliatone/go-posttypes/pkg/host"
	rendertemplate "github.com/goliatone/go-posttypes/pkg/render/template"
)

// Option customises a MetaBox at construction.
type Option func(*MetaBox)

// WithTitle sets an explicit display title.
func WithTitle(title string) Option {
	return func(m *MetaBox) {
		m.title = title
	}
}

// WithFields sets the field renderer invoked by the render entry point.
func WithFields(fn host.RenderFunc) Option {
	return func(m *MetaBox) {
		m.fields = fn
	}
}

// WithSingle reads the stored value as a single value.
func WithSingle(single bool) Option {
	return func(m *MetaBox) {
		m.single = single
	}
}

// WithCapabilityType sets the permission category checked on save.
func WithCapabilityType(capabilityType string) Option {
	return func(m *MetaBox) {
		m.capabilityType = capabilityType
	}
}

// WithNonceID overrides the request key carrying the security token.
func WithNonceID(nonceID string) Option {
	return func(m *MetaBox) {
		m.nonceID = nonceID
	}
}

// WithSaveID overrides the action name the rendered token is issued for.
func WithSaveID(saveID string) Option {
	return func(m *MetaBox) {
		m.saveID = saveID
	}
}

// WithTemplateRenderer sets the template engine used for the nonce field and
// default input.
func WithTemplateRenderer(engine rendertemplate.TemplateRenderer) Option {
	return func(m *MetaBox) {
		if engine != nil {
			m.engine = engine
		}
	}
}

// WithLogger sets the logger used for debug output on skipped saves.
func WithLogger(logger *slog.Logger) Option {
	return func(m *MetaBox) {
		if logger != nil {
			m.logger = logger
		}
	}
}
