package loader

import (
	"context"
	"fmt"
	"maps"

	"github.com/goliatone/go-posttypes/pkg/host"
	"github.com/goliatone/go-posttypes/pkg/metabox"
	"github.com/goliatone/go-posttypes/pkg/posttype"
	"github.com/goliatone/go-posttypes/pkg/render"
)

// Build creates a post type descriptor per definition, attaching its meta
// boxes at their configured positions. boxOptions apply to every meta box
// before the definition's own settings.
func Build(h host.Host, defs Definitions, boxOptions ...metabox.Option) ([]*posttype.PostType, error) {
	types := make([]*posttype.PostType, 0, len(defs.Types))
	for _, def := range defs.Types {
		if def.ID == "" {
			return nil, fmt.Errorf("loader: post type id is required")
		}

		config := maps.Clone(def.Config)
		if config == nil {
			config = make(map[string]any)
		}
		if len(def.Labels) > 0 {
			config["labels"] = maps.Clone(def.Labels)
		}

		boxes := make([]*metabox.MetaBox, 0, len(def.MetaBoxes))
		for _, boxDef := range def.MetaBoxes {
			boxes = append(boxes, BuildMetaBox(h, boxDef, boxOptions...))
		}

		pt := posttype.New(h, def.ID, config, boxes...)
		for _, boxDef := range def.MetaBoxes {
			pt.SetMetaBoxPosition(boxDef.ID, posttype.Position{Context: boxDef.Context, Priority: boxDef.Priority})
		}
		types = append(types, pt)
	}
	return types, nil
}

// BuildMetaBox creates the meta box described by def. A description renders
// as help text under the default input.
func BuildMetaBox(h host.Host, def BoxDefinition, options ...metabox.Option) *metabox.MetaBox {
	opts := append([]metabox.Option(nil), options...)
	opts = append(opts,
		metabox.WithTitle(def.Title),
		metabox.WithSingle(def.Single),
		metabox.WithCapabilityType(def.CapabilityType),
		metabox.WithNonceID(def.NonceID),
		metabox.WithSaveID(def.SaveID),
	)
	box := metabox.New(h, def.ID, opts...)
	if def.Description != "" {
		box.SetFields(describedInput(box, def.Description))
	}
	return box
}

func describedInput(box *metabox.MetaBox, description string) host.RenderFunc {
	return func(_ context.Context, _ host.Post, args host.BoxArgs, value host.MetaValue) (string, error) {
		engine, err := box.Templates()
		if err != nil {
			return "", err
		}
		return engine.RenderTemplate(render.TemplateDescribed, map[string]any{
			"id":          args.ID,
			"value":       value.String(),
			"description": description,
		})
	}
}
