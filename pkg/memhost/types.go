package memhost

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goliatone/go-posttypes/pkg/host"
)

type registeredType struct {
	object *host.TypeObject
	args   host.TypeArgs
}

// RegisterPostType stores the type, filling host defaults for unset options.
// Registering an existing type replaces it.
func (s *Site) RegisterPostType(ctx context.Context, typeID string, args host.TypeArgs) error {
	typeID = strings.TrimSpace(typeID)
	if typeID == "" || len(typeID) > 20 {
		return fmt.Errorf("memhost: post type names must be between 1 and 20 characters, got %q", typeID)
	}

	attributes := withTypeDefaults(args.Options)
	object := &host.TypeObject{
		Name:       typeID,
		Attributes: attributes,
		Labels:     maps.Clone(args.Labels),
	}
	object.Labels = s.PostTypeLabels(object)

	s.mu.Lock()
	if _, exists := s.types[typeID]; !exists {
		s.typeOrder = append(s.typeOrder, typeID)
	}
	s.types[typeID] = &registeredType{object: object, args: args}
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "post type registered", "post_type", typeID)
	return nil
}

// UnregisterPostType removes the type and its meta boxes.
func (s *Site) UnregisterPostType(ctx context.Context, typeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.types[typeID]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPostType, typeID)
	}
	delete(s.types, typeID)
	delete(s.boxes, typeID)
	s.typeOrder = slices.DeleteFunc(s.typeOrder, func(name string) bool { return name == typeID })
	s.logger.DebugContext(ctx, "post type unregistered", "post_type", typeID)
	return nil
}

// PostTypeObject returns a copy of the registered type object.
func (s *Site) PostTypeObject(typeID string) (*host.TypeObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	registered, ok := s.types[typeID]
	if !ok {
		return nil, false
	}
	return cloneObject(registered.object), true
}

// PostTypes lists registered type names in registration order.
func (s *Site) PostTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.typeOrder)
}

// PostTypeLabels generates the full label set for object: host defaults for
// flat or hierarchical types, overlaid with the object's own labels, then
// the name/singular/menu fallbacks.
func (s *Site) PostTypeLabels(object *host.TypeObject) map[string]string {
	if object == nil {
		return nil
	}
	hierarchical := boolAttribute(object.Attributes, "hierarchical")

	labels := make(map[string]string, len(flatLabels))
	for key, pair := range flatLabels {
		if hierarchical {
			labels[key] = pair[1]
		} else {
			labels[key] = pair[0]
		}
	}

	custom := object.Labels
	for key, value := range custom {
		labels[key] = value
	}

	if custom["name"] == "" {
		if label, ok := object.Attributes["label"].(string); ok && label != "" {
			labels["name"] = label
		} else {
			labels["name"] = object.Name
		}
	}
	if custom["singular_name"] == "" {
		labels["singular_name"] = labels["name"]
	}
	if custom["name_admin_bar"] == "" {
		labels["name_admin_bar"] = labels["singular_name"]
	}
	if custom["menu_name"] == "" {
		labels["menu_name"] = labels["name"]
	}
	if custom["all_items"] == "" {
		labels["all_items"] = labels["menu_name"]
	}
	if custom["archives"] == "" {
		labels["archives"] = labels["all_items"]
	}
	return labels
}

// flatLabels holds {flat, hierarchical} defaults.
var flatLabels = map[string][2]string{
	"add_new":               {"Add New", "Add New"},
	"add_new_item":          {"Add New Post", "Add New Page"},
	"edit_item":             {"Edit Post", "Edit Page"},
	"new_item":              {"New Post", "New Page"},
	"view_item":             {"View Post", "View Page"},
	"view_items":            {"View Posts", "View Pages"},
	"search_items":          {"Search Posts", "Search Pages"},
	"not_found":             {"No posts found.", "No pages found."},
	"not_found_in_trash":    {"No posts found in Trash.", "No pages found in Trash."},
	"parent_item_colon":     {"", "Parent Page:"},
	"attributes":            {"Post Attributes", "Page Attributes"},
	"insert_into_item":      {"Insert into post", "Insert into page"},
	"uploaded_to_this_item": {"Uploaded to this post", "Uploaded to this page"},
	"featured_image":        {"Featured image", "Featured image"},
	"set_featured_image":    {"Set featured image", "Set featured image"},
	"remove_featured_image": {"Remove featured image", "Remove featured image"},
	"use_featured_image":    {"Use as featured image", "Use as featured image"},
	"filter_items_list":     {"Filter posts list", "Filter pages list"},
	"items_list_navigation": {"Posts list navigation", "Pages list navigation"},
	"items_list":            {"Posts list", "Pages list"},
}

func withTypeDefaults(options map[string]any) map[string]any {
	attributes := maps.Clone(options)
	if attributes == nil {
		attributes = make(map[string]any)
	}
	setDefault := func(key string, value any) {
		if v, ok := attributes[key]; !ok || v == nil {
			attributes[key] = value
		}
	}

	setDefault("description", "")
	setDefault("public", false)
	setDefault("hierarchical", false)
	public := boolAttribute(attributes, "public")
	setDefault("exclude_from_search", !public)
	setDefault("publicly_queryable", public)
	setDefault("show_ui", public)
	setDefault("show_in_menu", attributes["show_ui"])
	setDefault("show_in_nav_menus", public)
	setDefault("show_in_admin_bar", attributes["show_in_menu"])
	setDefault("capability_type", "post")
	setDefault("map_meta_cap", true)
	setDefault("supports", []string{"title", "editor"})
	setDefault("taxonomies", []string{})
	setDefault("has_archive", false)
	setDefault("rewrite", true)
	setDefault("query_var", true)
	setDefault("can_export", true)
	setDefault("show_in_rest", false)
	return attributes
}

func boolAttribute(attributes map[string]any, key string) bool {
	switch v := attributes[key].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1"
	case int:
		return v != 0
	default:
		return false
	}
}

func cloneObject(object *host.TypeObject) *host.TypeObject {
	return &host.TypeObject{
		Name:       object.Name,
		Attributes: maps.Clone(object.Attributes),
		Labels:     maps.Clone(object.Labels),
	}
}
