package posttype

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/goliatone/go-posttypes/pkg/host"
	"github.com/goliatone/go-posttypes/pkg/metabox"
)

// Position places a meta box on the edit screen.
type Position struct {
	Context  string
	Priority string
}

// IsZero reports whether no placement is set.
func (p Position) IsZero() bool {
	return p.Context == "" && p.Priority == ""
}

// DefaultPosition is used for meta boxes without a placement override.
var DefaultPosition = Position{Context: metabox.ContextAdvanced, Priority: metabox.PriorityDefault}

// PostType describes a custom post type: its identity, allow-listed
// configuration, and attached meta boxes.
type PostType struct {
	host   host.Host
	logger *slog.Logger

	typeID    string
	options   map[string]any
	labels    map[string]string
	metaBoxes []*metabox.MetaBox
	positions map[string]Position
}

// New constructs a post type bound to h. The configuration is merged with the
// host's existing type object for typeID, when there is one.
func New(h host.Host, typeID string, config map[string]any, boxes ...*metabox.MetaBox) *PostType {
	p := &PostType{
		host:      h,
		logger:    slog.New(slog.DiscardHandler),
		typeID:    typeID,
		positions: make(map[string]Position),
	}
	existing, _ := h.PostTypeObject(typeID)
	p.SetConfig(config, existing)
	p.metaBoxes = slices.Clone(boxes)
	return p
}

// SetLogger sets the logger used for registration output.
func (p *PostType) SetLogger(logger *slog.Logger) *PostType {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// TypeID returns the post type identity.
func (p *PostType) TypeID() string {
	return p.typeID
}

// SetTypeID replaces the identity. Do not call after Update.
func (p *PostType) SetTypeID(typeID string) *PostType {
	p.typeID = typeID
	return p
}

// Config returns a copy of the merged configuration. RegisterMetaBoxCB is set
// only when at least one meta box is attached.
func (p *PostType) Config() host.TypeArgs {
	args := host.TypeArgs{
		Options: maps.Clone(p.options),
		Labels:  maps.Clone(p.labels),
	}
	if args.Options == nil {
		args.Options = make(map[string]any)
	}
	if args.Labels == nil {
		args.Labels = make(map[string]string)
	}
	if len(p.metaBoxes) > 0 {
		args.RegisterMetaBoxCB = p.RegisterMetaBoxes
	}
	return args
}

// MetaBoxes returns the attached meta boxes in attachment order.
func (p *PostType) MetaBoxes() []*metabox.MetaBox {
	return slices.Clone(p.metaBoxes)
}

// SetMetaBoxes replaces the attached meta boxes.
func (p *PostType) SetMetaBoxes(boxes []*metabox.MetaBox) *PostType {
	p.metaBoxes = slices.Clone(boxes)
	return p
}

// AddMetaBox attaches box unless that same instance is already attached.
// Membership is by instance: a different MetaBox with the same ID is added.
func (p *PostType) AddMetaBox(box *metabox.MetaBox) *PostType {
	if box == nil {
		return p
	}
	if !slices.Contains(p.metaBoxes, box) {
		p.metaBoxes = append(p.metaBoxes, box)
	}
	return p
}

// RemoveMetaBox detaches box when that instance is attached.
func (p *PostType) RemoveMetaBox(box *metabox.MetaBox) *PostType {
	if idx := slices.Index(p.metaBoxes, box); idx >= 0 {
		p.metaBoxes = slices.Delete(p.metaBoxes, idx, idx+1)
	}
	return p
}

// MetaBoxPositions returns a copy of the placement overrides keyed by meta
// box ID.
func (p *PostType) MetaBoxPositions() map[string]Position {
	return maps.Clone(p.positions)
}

// SetMetaBoxPositions replaces every placement override.
func (p *PostType) SetMetaBoxPositions(positions map[string]Position) *PostType {
	p.positions = maps.Clone(positions)
	if p.positions == nil {
		p.positions = make(map[string]Position)
	}
	return p
}

// SetMetaBoxPosition sets the placement override for a meta box ID. A zero
// Position clears the override.
func (p *PostType) SetMetaBoxPosition(id string, position Position) *PostType {
	if position.IsZero() {
		delete(p.positions, id)
		return p
	}
	if p.positions == nil {
		p.positions = make(map[string]Position)
	}
	p.positions[id] = position
	return p
}

// RegisterMetaBoxes adds every attached meta box to this type's screen at
// its placement override or DefaultPosition. Hosts call it through
// TypeArgs.RegisterMetaBoxCB.
func (p *PostType) RegisterMetaBoxes(_ context.Context) error {
	for _, box := range p.metaBoxes {
		position, ok := p.positions[box.ID()]
		if !ok {
			position = DefaultPosition
		}
		box.Add(p.typeID, position.Context, position.Priority)
	}
	return nil
}

// RegisterPostType registers the type with the host.
func (p *PostType) RegisterPostType(ctx context.Context) error {
	if err := p.host.RegisterPostType(ctx, p.typeID, p.Config()); err != nil {
		return fmt.Errorf("posttype: register %q: %w", p.typeID, err)
	}
	p.logger.DebugContext(ctx, "post type registered", "post_type", p.typeID, "meta_boxes", len(p.metaBoxes))
	return nil
}

// Update schedules RegisterPostType on the host's init hook. When
// registerSaves is set, every attached meta box's save handler is wired to
// this type's save hook right away.
func (p *PostType) Update(registerSaves bool) {
	p.host.AddAction(host.HookInit, p.initHandlerID(), func(ctx context.Context, _ host.Event) error {
		return p.RegisterPostType(ctx)
	})

	if registerSaves && len(p.metaBoxes) > 0 {
		for _, box := range p.metaBoxes {
			box.RegisterSaveAction(p.typeID)
		}
	}
}

// Unregister removes the init handler, the meta box save handlers scoped to
// this type, and the host registration.
func (p *PostType) Unregister(ctx context.Context) error {
	p.host.RemoveAction(host.HookInit, p.initHandlerID())
	for _, box := range p.metaBoxes {
		box.UnregisterSaveAction(p.typeID)
	}
	if err := p.host.UnregisterPostType(ctx, p.typeID); err != nil {
		return fmt.Errorf("posttype: unregister %q: %w", p.typeID, err)
	}
	return nil
}

func (p *PostType) initHandlerID() string {
	return "posttype." + p.typeID + ".register"
}
