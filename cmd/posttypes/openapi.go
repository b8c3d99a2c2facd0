package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-posttypes/pkg/loader"
)

var (
	flagSchema   string
	flagTypeID   string
	flagTypeName string
)

var openapiCmd = &cobra.Command{
	Use:   "openapi <file>",
	Short: "Derive a definition file from an OpenAPI schema",
	Long: `OpenAPI reads a component schema from an OpenAPI document and prints a
definition with one meta box per schema property.

Example:
  posttypes openapi --schema Book --type book catalogue.yaml > definitions/book.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runOpenAPI,
}

func init() {
	openapiCmd.Flags().StringVar(&flagSchema, "schema", "", "component schema name")
	openapiCmd.Flags().StringVar(&flagTypeID, "type", "", "post type id (default: schema name lowercased)")
	openapiCmd.Flags().StringVar(&flagTypeName, "name", "", "plural display name")
	_ = openapiCmd.MarkFlagRequired("schema")
}

func runOpenAPI(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	boxes, err := loader.BoxesFromOpenAPI(cmd.Context(), data, flagSchema)
	if err != nil {
		return err
	}

	def := loader.TypeDefinition{ID: flagTypeID, MetaBoxes: boxes}
	if def.ID == "" {
		def.ID = strings.ToLower(strings.TrimSpace(flagSchema))
	}
	if flagTypeName != "" {
		def.Labels = map[string]string{"name": flagTypeName}
	}

	out, err := loader.Encode(loader.Definitions{Types: []loader.TypeDefinition{def}})
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
