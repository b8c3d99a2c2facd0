package loader

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const extensionNamespace = "x-posttypes"

// BoxesFromOpenAPI derives one meta box definition per property of the named
// component schema, in property name order. Array properties become
// multi-value boxes. Placement and capability can be set per property with
// an "x-posttypes" extension object holding context, priority, and
// capabilityType keys; "x-posttypes: {skip: true}" omits a property.
func BoxesFromOpenAPI(ctx context.Context, data []byte, schemaName string) ([]BoxDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("loader: openapi document is empty")
	}

	docLoader := &openapi3.Loader{Context: ctx}
	doc, err := docLoader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("loader: load openapi document: %w", err)
	}
	if doc.Components == nil || doc.Components.Schemas == nil {
		return nil, fmt.Errorf("loader: openapi document has no component schemas")
	}
	ref, ok := doc.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("loader: schema %q not found", schemaName)
	}

	names := make([]string, 0, len(ref.Value.Properties))
	for name := range ref.Value.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	boxes := make([]BoxDefinition, 0, len(names))
	for _, name := range names {
		property := ref.Value.Properties[name]
		if property == nil || property.Value == nil {
			continue
		}
		schema := property.Value
		ext := extensionMap(schema.Extensions)
		if skip, _ := ext["skip"].(bool); skip {
			continue
		}

		boxes = append(boxes, BoxDefinition{
			ID:             boxID(name),
			Title:          strings.TrimSpace(schema.Title),
			Description:    strings.TrimSpace(schema.Description),
			Single:         !schema.Type.Is(openapi3.TypeArray),
			CapabilityType: extensionString(ext, "capabilityType"),
			Context:        strings.ToLower(extensionString(ext, "context")),
			Priority:       strings.ToLower(extensionString(ext, "priority")),
		})
	}
	return boxes, nil
}

// boxID lowercases name and maps every character outside [a-z0-9_] to an
// underscore, so camelCase and kebab-case property names become meta keys.
func boxID(name string) string {
	var b strings.Builder
	var prev rune
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			if (prev >= 'a' && prev <= 'z') || (prev >= '0' && prev <= '9') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
		prev = r
	}
	return b.String()
}

func extensionMap(raw map[string]any) map[string]any {
	mapped, _ := raw[extensionNamespace].(map[string]any)
	return mapped
}

func extensionString(ext map[string]any, key string) string {
	value, ok := ext[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
