package memhost

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-posttypes/pkg/host"
	"github.com/goliatone/go-posttypes/pkg/render"
	rendertemplate "github.com/goliatone/go-posttypes/pkg/render/template"
)

// Theme template keys that override the built-in panel and screen templates.
const (
	ThemeTemplatePanel  = "posttypes.panel"
	ThemeTemplateScreen = "posttypes.screen"
)

var (
	headingPolicyOnce sync.Once
	headingPolicy     *bluemonday.Policy

	descriptionPolicyOnce sync.Once
	descriptionPolicy     *bluemonday.Policy
)

func sanitizeHeading(raw string) string {
	headingPolicyOnce.Do(func() {
		headingPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(headingPolicy.Sanitize(raw))
}

func sanitizeDescription(raw string) string {
	descriptionPolicyOnce.Do(func() {
		descriptionPolicy = bluemonday.UGCPolicy()
	})
	return strings.TrimSpace(descriptionPolicy.Sanitize(raw))
}

type screenTemplates struct {
	panel   string
	screen  string
	theme   string
	variant string
}

// RenderEditScreen writes the edit screen of a stored post: the type's meta
// box callback runs, "add_meta_boxes_<type>" fires, and every registered box
// is rendered inside its panel, grouped by context.
func (s *Site) RenderEditScreen(ctx context.Context, w io.Writer, postID int64) error {
	post, ok := s.Post(postID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPost, postID)
	}

	s.mu.RLock()
	registered, ok := s.types[post.Type]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPostType, post.Type)
	}

	if cb := registered.args.RegisterMetaBoxCB; cb != nil {
		if err := cb(ctx); err != nil {
			return fmt.Errorf("memhost: register meta boxes for %q: %w", post.Type, err)
		}
	}
	if err := s.DoAction(ctx, host.Event{Hook: HookAddMetaBoxes + "_" + post.Type, PostID: post.ID, Post: &post}); err != nil {
		return err
	}

	engine, err := s.Templates()
	if err != nil {
		return err
	}
	names, err := s.resolveTemplates()
	if err != nil {
		return err
	}

	var sections []map[string]any
	var current map[string]any
	for _, box := range s.MetaBoxes(post.Type) {
		var body strings.Builder
		if box.Render != nil {
			if err := box.Render(ctx, &body, post, box.Args); err != nil {
				return fmt.Errorf("memhost: render meta box %q: %w", box.ID, err)
			}
		}
		panel, err := engine.RenderTemplate(names.panel, map[string]any{
			"box": map[string]any{
				"id":       box.ID,
				"title":    s.translate(box.Title),
				"context":  box.Context,
				"priority": box.Priority,
			},
			"body": body.String(),
		})
		if err != nil {
			return fmt.Errorf("memhost: render panel %q: %w", box.ID, err)
		}

		if current == nil || current["context"] != box.Context {
			current = map[string]any{"context": box.Context, "panels": []any{}}
			sections = append(sections, current)
		}
		current["panels"] = append(current["panels"].([]any), panel)
	}

	hidden := render.MergeHiddenFields(map[string]string{"action": "editpost"},
		render.Hidden("post_ID", post.ID),
		render.Hidden("post_type", post.Type),
	)
	var hiddenOut strings.Builder
	if err := render.WriteHiddenFields(engine, &hiddenOut, render.SortedHiddenFields(hidden)...); err != nil {
		return fmt.Errorf("memhost: %w", err)
	}

	object := registered.object
	labels := object.Labels
	if s.translator != nil {
		labels = render.LocalizeLabels(labels, s.locale, s.translator, nil)
	}
	description, _ := object.Attribute("description")
	data := map[string]any{
		"post": map[string]any{
			"id":     strconv.FormatInt(post.ID, 10),
			"type":   post.Type,
			"title":  post.Title,
			"status": post.Status,
		},
		"hidden":      hiddenOut.String(),
		"heading":     sanitizeHeading(labels["edit_item"]),
		"description": sanitizeDescription(fmt.Sprint(valueOrEmpty(description))),
		"sections":    sections,
		"theme":       names.theme,
		"variant":     names.variant,
	}
	if _, err := engine.RenderTemplate(names.screen, data, w); err != nil {
		return fmt.Errorf("memhost: render edit screen for post %d: %w", post.ID, err)
	}
	return nil
}

// Templates returns the site engine: the WithTemplatesFS layers over the
// embedded templates.
func (s *Site) Templates() (rendertemplate.TemplateRenderer, error) {
	s.engineOnce.Do(func() {
		if len(s.templateFS) == 0 {
			s.engine, s.engineErr = render.DefaultEngine()
			return
		}
		s.engine, s.engineErr = render.NewEngine(s.templateFS...)
	})
	if s.engineErr != nil {
		return nil, fmt.Errorf("memhost: %w", s.engineErr)
	}
	return s.engine, nil
}

// resolveTemplates applies theme overrides: the manifest's templates, then
// the selected variant's.
func (s *Site) resolveTemplates() (screenTemplates, error) {
	names := screenTemplates{panel: render.TemplatePanel, screen: render.TemplateScreen}
	if s.themeSelector == nil {
		return names, nil
	}

	selection, err := s.themeSelector.Select(s.themeName, s.themeVariant)
	if err != nil {
		return names, fmt.Errorf("memhost: select theme %q: %w", s.themeName, err)
	}
	if selection == nil {
		return names, nil
	}
	names.theme = selection.Theme
	names.variant = selection.Variant
	if selection.Manifest == nil {
		return names, nil
	}

	overrides := make(map[string]string)
	for key, value := range selection.Manifest.Templates {
		overrides[key] = value
	}
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Templates {
			overrides[key] = value
		}
	}
	if name := strings.TrimSpace(overrides[ThemeTemplatePanel]); name != "" {
		names.panel = name
	}
	if name := strings.TrimSpace(overrides[ThemeTemplateScreen]); name != "" {
		names.screen = name
	}
	return names, nil
}

func (s *Site) translate(text string) string {
	if s.translator == nil {
		return text
	}
	return render.Translate(s.locale, text, s.translator, nil)
}

func valueOrEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}
