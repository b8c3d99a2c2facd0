package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagType   string
	flagPostID int64
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the edit screen of a post",
	Long: `Render registers every defined post type and prints the edit screen of the
given post, including its meta box panels and security tokens.

Example:
  posttypes render --type book --post-id 1`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	for _, cmd := range []*cobra.Command{renderCmd, saveCmd} {
		cmd.Flags().StringVar(&flagType, "type", "", "post type id")
		cmd.Flags().Int64Var(&flagPostID, "post-id", 1, "post id")
		_ = cmd.MarkFlagRequired("type")
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	post, err := a.post(flagType, flagPostID)
	if err != nil {
		return err
	}
	if err := a.site.RenderEditScreen(ctx, cmd.OutOrStdout(), post.ID); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout())
	return err
}
