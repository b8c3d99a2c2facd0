package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-posttypes/pkg/memhost"
)

var saveCmd = &cobra.Command{
	Use:   "save key=value...",
	Short: "Submit values for a post's meta boxes",
	Long: `Save submits the given values the way the edit screen form would: every
meta box of the post type receives a fresh security token, the save hooks
fire as the admin user, and the stored meta is printed.

Repeat a key to submit several values.

Example:
  posttypes save --type book --post-id 1 book_isbn=9780441013593`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSave,
}

func runSave(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	values, err := parseAssignments(args)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	stored, err := a.submit(ctx, flagType, flagPostID, values)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// submit saves values for a post as the admin user, adding a token for every
// meta box of the type, and returns the stored meta.
func (a *app) submit(ctx context.Context, typeID string, postID int64, values url.Values) (map[string][]string, error) {
	post, err := a.post(typeID, postID)
	if err != nil {
		return nil, err
	}

	ctx = memhost.WithUser(ctx, a.admin)
	form := url.Values{}
	for key, submitted := range values {
		form[key] = append([]string(nil), submitted...)
	}
	for _, box := range a.types[typeID].MetaBoxes() {
		if _, ok := form[box.NonceID()]; !ok {
			form.Set(box.NonceID(), a.site.CreateNonce(ctx, box.SaveID()))
		}
	}

	if err := a.site.SavePost(memhost.WithRequest(ctx, form), post.ID); err != nil {
		return nil, err
	}
	return a.storedMeta(ctx, typeID, post.ID)
}

func parseAssignments(args []string) (url.Values, error) {
	values := url.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", arg)
		}
		values.Add(key, value)
	}
	return values, nil
}
