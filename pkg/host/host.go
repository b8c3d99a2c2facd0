package host

import (
	"context"
	"io"

	rendertemplate "github.com/goliatone/go-posttypes/pkg/render/template"
)

// Hook names fired by hosts.
const (
	HookInit     = "init"
	HookSavePost = "save_post"
)

// Post references a content item owned by the host.
type Post struct {
	ID     int64
	Type   string
	Title  string
	Status string
}

// MetaValue carries the stored values of a meta key read with the requested
// cardinality.
type MetaValue struct {
	Single bool
	Values []string
}

// String returns the first stored value or an empty string.
func (v MetaValue) String() string {
	if len(v.Values) == 0 {
		return ""
	}
	return v.Values[0]
}

// NewMetaValue trims values to the requested cardinality.
func NewMetaValue(values []string, single bool) MetaValue {
	if single && len(values) > 1 {
		values = values[:1]
	}
	return MetaValue{
		Single: single,
		Values: append([]string(nil), values...),
	}
}

// RenderFunc renders the fields of a meta box. The returned markup is emitted
// verbatim.
type RenderFunc func(ctx context.Context, post Post, args BoxArgs, value MetaValue) (string, error)

// BoxArgs is the configuration snapshot a meta box hands to the host at
// registration time. The host passes it back to the render entry point.
type BoxArgs struct {
	ID             string
	Title          string
	Fields         RenderFunc
	Single         bool
	CapabilityType string
	NonceID        string
	SaveID         string
}

// BoxRenderer is the render entry point a meta box registers.
type BoxRenderer func(ctx context.Context, w io.Writer, post Post, args BoxArgs) error

// Box describes a registered editor panel.
type Box struct {
	ID       string
	Title    string
	Screen   string
	Context  string
	Priority string
	Args     BoxArgs
	Render   BoxRenderer
}

// TypeObject is the host-side view of a registered post type.
type TypeObject struct {
	Name       string
	Attributes map[string]any
	Labels     map[string]string
}

// Attribute reports the attribute value when present and non-nil.
func (o *TypeObject) Attribute(name string) (any, bool) {
	if o == nil || o.Attributes == nil {
		return nil, false
	}
	value, ok := o.Attributes[name]
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}

// TypeArgs is the allow-listed configuration handed to RegisterPostType.
type TypeArgs struct {
	Options map[string]any
	Labels  map[string]string
	// RegisterMetaBoxCB is invoked by the host while it prepares the edit
	// screen for the type.
	RegisterMetaBoxCB func(ctx context.Context) error
}

// Event is passed to action handlers.
type Event struct {
	Hook   string
	PostID int64
	Post   *Post
}

// Hook handles a fired action.
type Hook func(ctx context.Context, event Event) error

// MetaBoxes registers and removes editor panels.
type MetaBoxes interface {
	AddMetaBox(box Box)
	RemoveMetaBox(id, screen, context string)
}

// Meta reads and writes values attached to content items.
type Meta interface {
	PostMeta(ctx context.Context, postID int64, key string) ([]string, error)
	UpdatePostMeta(ctx context.Context, postID int64, key string, values ...string) error
}

// Nonces issues and verifies one-time security tokens tied to an action.
type Nonces interface {
	CreateNonce(ctx context.Context, action string) string
	VerifyNonce(ctx context.Context, nonce, action string) bool
}

// Authorizer checks whether the current caller may perform an action.
type Authorizer interface {
	CurrentUserCan(ctx context.Context, capability string, objectID int64) bool
}

// Input exposes the incoming request data.
type Input interface {
	PostValue(ctx context.Context, key string) ([]string, bool)
}

// Types registers post types and exposes existing ones.
type Types interface {
	RegisterPostType(ctx context.Context, typeID string, args TypeArgs) error
	UnregisterPostType(ctx context.Context, typeID string) error
	PostTypeObject(typeID string) (*TypeObject, bool)
	PostTypeLabels(object *TypeObject) map[string]string
}

// Actions registers lifecycle handlers. Handlers are keyed by id within a hook;
// registering the same id twice replaces the earlier handler.
type Actions interface {
	AddAction(hook, handlerID string, fn Hook)
	RemoveAction(hook, handlerID string)
}

// Templates is implemented by hosts that let meta boxes render through the
// host's own template engine.
type Templates interface {
	Templates() (rendertemplate.TemplateRenderer, error)
}

// Host is the complete collaborator surface.
type Host interface {
	MetaBoxes
	Meta
	Nonces
	Authorizer
	Input
	Types
	Actions
}

// SaveHook returns the save action name, scoped to postType when non-empty.
func SaveHook(postType string) string {
	if postType == "" {
		return HookSavePost
	}
	return HookSavePost + "_" + postType
}
