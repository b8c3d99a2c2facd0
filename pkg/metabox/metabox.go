package metabox

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-posttypes/pkg/host"
	"github.com/goliatone/go-posttypes/pkg/render"
	rendertemplate "github.com/goliatone/go-posttypes/pkg/render/template"
)

// Placement contexts understood by hosts.
const (
	ContextNormal   = "normal"
	ContextAdvanced = "advanced"
	ContextSide     = "side"
)

// Placement priorities understood by hosts.
const (
	PriorityHigh    = "high"
	PriorityCore    = "core"
	PriorityDefault = "default"
	PriorityLow     = "low"
)

// DefaultCapabilityType is used when no capability type is configured.
const DefaultCapabilityType = "post"

// MetaBox describes an editor panel attached to one or more post type
// screens together with the meta value it persists.
type MetaBox struct {
	host   host.Host
	logger *slog.Logger
	engine rendertemplate.TemplateRenderer

	id             string
	title          string
	fields         host.RenderFunc
	single         bool
	capabilityType string
	nonceID        string
	saveID         string
}

// New constructs a meta box bound to h. id is the identity the host indexes
// the panel and its meta key by.
func New(h host.Host, id string, options ...Option) *MetaBox {
	box := &MetaBox{
		host:           h,
		logger:         slog.New(slog.DiscardHandler),
		id:             id,
		capabilityType: DefaultCapabilityType,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(box)
	}
	return box
}

// ID returns the meta box identity.
func (m *MetaBox) ID() string {
	return m.id
}

// SetID replaces the identity. Do not call after the box was registered with
// a host; hosts index panels and handlers by identity.
func (m *MetaBox) SetID(id string) *MetaBox {
	m.id = id
	return m
}

// Title returns the configured title or one derived from the identity, with
// each underscore separated segment capitalised ("book_isbn" -> "Book Isbn").
// A derived title is kept for subsequent calls.
func (m *MetaBox) Title() string {
	if m.title == "" {
		m.title = TitleFromID(m.id)
	}
	return m.title
}

// SetTitle overrides the display title.
func (m *MetaBox) SetTitle(title string) *MetaBox {
	m.title = title
	return m
}

// Fields returns the field renderer, nil when the default input is used.
func (m *MetaBox) Fields() host.RenderFunc {
	return m.fields
}

// SetFields sets the field renderer. Pass nil to fall back to the default
// text input.
func (m *MetaBox) SetFields(fn host.RenderFunc) *MetaBox {
	m.fields = fn
	return m
}

// Single reports whether the stored value is read as a single value.
func (m *MetaBox) Single() bool {
	return m.single
}

// SetSingle sets the storage cardinality.
func (m *MetaBox) SetSingle(single bool) *MetaBox {
	m.single = single
	return m
}

// CapabilityType returns the permission category checked on save.
func (m *MetaBox) CapabilityType() string {
	if m.capabilityType == "" {
		return DefaultCapabilityType
	}
	return m.capabilityType
}

// SetCapabilityType sets the permission category.
func (m *MetaBox) SetCapabilityType(capabilityType string) *MetaBox {
	m.capabilityType = capabilityType
	return m
}

// NonceID returns the request key carrying the security token.
func (m *MetaBox) NonceID() string {
	if m.nonceID == "" {
		return m.id + "_nonce"
	}
	return m.nonceID
}

// SetNonceID overrides the token request key.
func (m *MetaBox) SetNonceID(nonceID string) *MetaBox {
	m.nonceID = nonceID
	return m
}

// SaveID returns the action name the rendered token is issued for.
func (m *MetaBox) SaveID() string {
	if m.saveID == "" {
		return m.id + "_save"
	}
	return m.saveID
}

// SetSaveID overrides the token action name used when rendering.
func (m *MetaBox) SetSaveID(saveID string) *MetaBox {
	m.saveID = saveID
	return m
}

// MetaKey returns the storage key of the persisted value.
func (m *MetaBox) MetaKey() string {
	return MetaKey(m.id)
}

// Args returns the configuration snapshot handed to the host.
func (m *MetaBox) Args() host.BoxArgs {
	return host.BoxArgs{
		ID:             m.ID(),
		Title:          m.Title(),
		Fields:         m.Fields(),
		Single:         m.Single(),
		CapabilityType: m.CapabilityType(),
		NonceID:        m.NonceID(),
		SaveID:         m.SaveID(),
	}
}

// Add registers the panel on screen. Empty context or priority fall back to
// "advanced" and "default".
func (m *MetaBox) Add(screen, context, priority string) {
	if context == "" {
		context = ContextAdvanced
	}
	if priority == "" {
		priority = PriorityDefault
	}
	m.host.AddMetaBox(host.Box{
		ID:       m.ID(),
		Title:    m.Title(),
		Screen:   screen,
		Context:  context,
		Priority: priority,
		Args:     m.Args(),
		Render:   m.renderEntryPoint,
	})
}

// Remove asks the host to drop the panel from screen. Removing a panel that
// was never added is a no-op.
func (m *MetaBox) Remove(screen, context string) {
	if context == "" {
		context = ContextAdvanced
	}
	m.host.RemoveMetaBox(m.ID(), screen, context)
}

// renderEntryPoint is invoked by the host with the snapshot captured at Add
// time, not the live descriptor.
func (m *MetaBox) renderEntryPoint(ctx context.Context, w io.Writer, post host.Post, args host.BoxArgs) error {
	stored, err := m.host.PostMeta(ctx, post.ID, MetaKey(args.ID))
	if err != nil {
		return fmt.Errorf("metabox: read %s for post %d: %w", args.ID, post.ID, err)
	}
	value := host.NewMetaValue(stored, args.Single)

	engine, err := m.Templates()
	if err != nil {
		return err
	}

	var b strings.Builder
	token := m.host.CreateNonce(ctx, args.SaveID)
	if err := render.WriteHiddenFields(engine, &b, render.NonceField(args.NonceID, token)); err != nil {
		return fmt.Errorf("metabox: %s nonce field: %w", args.ID, err)
	}

	if args.Fields != nil {
		out, err := args.Fields(ctx, post, args, value)
		if err != nil {
			return fmt.Errorf("metabox: %s fields: %w", args.ID, err)
		}
		b.WriteString(out)
	} else {
		out, err := engine.RenderTemplate(render.TemplateInput, map[string]any{
			"id":    args.ID,
			"value": value.String(),
		})
		if err != nil {
			return fmt.Errorf("metabox: %s default input: %w", args.ID, err)
		}
		b.WriteString(out)
	}

	_, err = io.WriteString(w, b.String())
	return err
}

// Templates returns the engine the box renders through: the configured
// renderer, else the host's when it provides one, else the embedded
// templates.
func (m *MetaBox) Templates() (rendertemplate.TemplateRenderer, error) {
	if m.engine != nil {
		return m.engine, nil
	}
	if source, ok := m.host.(host.Templates); ok {
		engine, err := source.Templates()
		if err != nil {
			return nil, fmt.Errorf("metabox: %w", err)
		}
		if engine != nil {
			return engine, nil
		}
	}
	engine, err := render.DefaultEngine()
	if err != nil {
		return nil, fmt.Errorf("metabox: %w", err)
	}
	return engine, nil
}

// MetaKey returns the storage key for a meta box identity.
func MetaKey(id string) string {
	return "_" + id
}

// TitleFromID splits id on underscores and upper-cases the first letter of
// each segment.
func TitleFromID(id string) string {
	parts := strings.Split(id, "_")
	for i, part := range parts {
		parts[i] = upperFirst(part)
	}
	return strings.Join(parts, " ")
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
