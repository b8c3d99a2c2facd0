package render

import (
	"fmt"
	"sort"
	"strings"

	rendertemplate "github.com/goliatone/go-posttypes/pkg/render/template"
)

// HiddenField represents a hidden form input emitted alongside visible fields.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// NonceField constructs the hidden field carrying a security token. name is
// the request key the save handler reads the token from.
func NonceField(name, token string) HiddenField {
	return Hidden(name, token)
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields normalises and sorts hidden fields for deterministic
// rendering. Empty names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	clean := make(map[string]string, len(fields))
	for name, value := range fields {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		if _, seen := clean[key]; !seen {
			names = append(names, key)
		}
		clean[key] = value
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: name, Value: clean[name]})
	}
	return result
}

// WriteHiddenFields renders each field through the hidden input template.
func WriteHiddenFields(engine rendertemplate.TemplateRenderer, b *strings.Builder, fields ...HiddenField) error {
	if engine == nil {
		return fmt.Errorf("render: template renderer is nil")
	}
	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		out, err := engine.RenderTemplate(TemplateHidden, map[string]any{
			"name":  field.Name,
			"value": field.Value,
		})
		if err != nil {
			return fmt.Errorf("render: hidden field %q: %w", field.Name, err)
		}
		b.WriteString(out)
	}
	return nil
}
