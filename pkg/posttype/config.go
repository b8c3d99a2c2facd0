package posttype

import (
	"fmt"

	"github.com/goliatone/go-posttypes/pkg/host"
)

// ConfigKeys lists the top-level options SetConfig accepts.
var ConfigKeys = []string{
	"description",
	"public",
	"hierarchical",
	"exclude_from_search",
	"publicly_queryable",
	"show_ui",
	"show_in_menu",
	"show_in_nav_menus",
	"show_in_admin_bar",
	"menu_position",
	"menu_icon",
	"capability_type",
	"capabilities",
	"map_meta_cap",
	"supports",
	"taxonomies",
	"has_archive",
	"rewrite",
	"query_var",
	"can_export",
	"delete_with_user",
	"show_in_rest",
	"rest_base",
	"rest_controller_class",
}

// LabelKeys lists the label names SetConfig accepts under "labels".
var LabelKeys = []string{
	"name",
	"singular_name",
	"add_new",
	"add_new_item",
	"edit_item",
	"new_item",
	"view_item",
	"view_items",
	"search_items",
	"not_found",
	"not_found_in_trash",
	"parent_item_colon",
	"all_items",
	"archives",
	"attributes",
	"insert_into_item",
	"uploaded_to_this_item",
	"featured_image",
	"set_featured_image",
	"remove_featured_image",
	"use_featured_image",
	"menu_name",
	"filter_items_list",
	"items_list_navigation",
	"items_list",
	"name_admin_bar",
}

// SetConfig replaces the configuration. For every key in ConfigKeys the
// caller's non-nil value wins, then the existing type object's attribute;
// otherwise the key stays unset and the host applies its default.
//
// Labels start from the host-generated label set of existing (empty when nil)
// and are overlaid with the caller's labels named in LabelKeys. Keys outside
// both lists are dropped.
func (p *PostType) SetConfig(config map[string]any, existing *host.TypeObject) *PostType {
	options := make(map[string]any, len(ConfigKeys))
	for _, key := range ConfigKeys {
		if value, ok := config[key]; ok && value != nil {
			options[key] = value
			continue
		}
		if value, ok := existing.Attribute(key); ok {
			options[key] = value
		}
	}

	labels := make(map[string]string, len(LabelKeys))
	if existing != nil {
		for key, value := range p.host.PostTypeLabels(existing) {
			labels[key] = value
		}
	}
	supplied := labelMap(config["labels"])
	for _, key := range LabelKeys {
		if value, ok := supplied[key]; ok {
			labels[key] = value
		}
	}

	p.options = options
	p.labels = labels
	return p
}

func labelMap(raw any) map[string]string {
	switch v := raw.(type) {
	case map[string]string:
		return v
	case map[string]any:
		out := make(map[string]string, len(v))
		for key, value := range v {
			if value == nil {
				continue
			}
			if s, ok := value.(string); ok {
				out[key] = s
				continue
			}
			out[key] = fmt.Sprint(value)
		}
		return out
	default:
		return nil
	}
}
