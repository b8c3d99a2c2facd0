package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-posttypes/pkg/loader"
	"github.com/goliatone/go-posttypes/pkg/metabox"
)

// errAborted is returned when the user interrupts a prompt.
var errAborted = errors.New("scaffold aborted")

var flagOut string

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold",
	Short: "Interactively write a definition file",
	Long: `Scaffold asks for a post type and its meta boxes and writes the resulting
definition as YAML to --out, or to stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := scaffoldDefinition(cmd.Context(), surveyPrompter{})
		if err != nil {
			return err
		}
		out, err := loader.Encode(loader.Definitions{Types: []loader.TypeDefinition{def}})
		if err != nil {
			return err
		}
		if flagOut == "" {
			_, err = cmd.OutOrStdout().Write(out)
			return err
		}
		if err := os.WriteFile(flagOut, out, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", flagOut, err)
		}
		logger.InfoContext(cmd.Context(), "definition written", "path", flagOut, "post_type", def.ID)
		return nil
	},
}

func init() {
	scaffoldCmd.Flags().StringVar(&flagOut, "out", "", "output file (default: stdout)")
}

// prompter asks the scaffold questions.
type prompter interface {
	Input(ctx context.Context, message, def string, validate func(string) error) (string, error)
	Confirm(ctx context.Context, message string, def bool) (bool, error)
	Select(ctx context.Context, message string, options []string, def string) (string, error)
}

func scaffoldDefinition(ctx context.Context, p prompter) (loader.TypeDefinition, error) {
	var def loader.TypeDefinition

	id, err := p.Input(ctx, "Post type id", "", validateIdentifier(20))
	if err != nil {
		return def, err
	}
	def.ID = id

	name, err := p.Input(ctx, "Plural name", "", nil)
	if err != nil {
		return def, err
	}
	singular, err := p.Input(ctx, "Singular name", "", nil)
	if err != nil {
		return def, err
	}
	def.Labels = compactLabels(map[string]string{"name": name, "singular_name": singular})

	public, err := p.Confirm(ctx, "Public?", true)
	if err != nil {
		return def, err
	}
	def.Config = map[string]any{"public": public}

	for {
		boxID, err := p.Input(ctx, "Meta box id (empty to finish)", "", optional(validateIdentifier(64)))
		if err != nil {
			return def, err
		}
		if boxID == "" {
			break
		}

		box := loader.BoxDefinition{ID: boxID}
		if box.Title, err = p.Input(ctx, "Title", metabox.TitleFromID(boxID), nil); err != nil {
			return def, err
		}
		if box.Title == metabox.TitleFromID(boxID) {
			box.Title = ""
		}
		if box.Single, err = p.Confirm(ctx, "Single value?", true); err != nil {
			return def, err
		}
		contexts := []string{metabox.ContextNormal, metabox.ContextAdvanced, metabox.ContextSide}
		if box.Context, err = p.Select(ctx, "Context", contexts, metabox.ContextAdvanced); err != nil {
			return def, err
		}
		priorities := []string{metabox.PriorityHigh, metabox.PriorityCore, metabox.PriorityDefault, metabox.PriorityLow}
		if box.Priority, err = p.Select(ctx, "Priority", priorities, metabox.PriorityDefault); err != nil {
			return def, err
		}
		def.MetaBoxes = append(def.MetaBoxes, box)
	}
	return def, nil
}

func validateIdentifier(max int) func(string) error {
	return func(value string) error {
		if value == "" || len(value) > max {
			return fmt.Errorf("must be between 1 and %d characters", max)
		}
		for _, r := range value {
			if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '_' && r != '-' {
				return fmt.Errorf("only lowercase letters, digits, '_' and '-' are allowed")
			}
		}
		return nil
	}
}

func optional(validate func(string) error) func(string) error {
	return func(value string) error {
		if value == "" {
			return nil
		}
		return validate(value)
	}
}

func compactLabels(labels map[string]string) map[string]string {
	for key, value := range labels {
		if strings.TrimSpace(value) == "" {
			delete(labels, key)
		}
	}
	if len(labels) == 0 {
		return nil
	}
	return labels
}

type surveyPrompter struct{}

func (surveyPrompter) Input(ctx context.Context, message, def string, validate func(string) error) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	var opts []survey.AskOpt
	if validate != nil {
		opts = append(opts, survey.WithValidator(func(ans any) error {
			s, _ := ans.(string)
			return validate(strings.TrimSpace(s))
		}))
	}
	if err := survey.AskOne(&survey.Input{Message: message, Default: def}, &out, opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return strings.TrimSpace(out), nil
}

func (surveyPrompter) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Select(ctx context.Context, message string, options []string, def string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	if err := survey.AskOne(&survey.Select{Message: message, Options: options, Default: def}, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}
