package app

import (
	"github.com/spf13/cobra"
)

func NewCheckSchemaCmd(mgr Manager) *cobra.Command {
	versionVal := dialectValue("")
	outputVal := formatValue("text")

	cmd := &cobra.Command{
		Use:   "check-schema SCHEMA",
		Short: "Validate a schema against its metaschema",
		Args:  cobra.ExactArgs(1),
		Example: `
  jsv check-schema person.schema.json
  jsv check-schema --version draft3 legacy.schema.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mgr.CheckSchema(cmd.Context(), CheckRequest{
				Schema:  args[0],
				Version: string(versionVal),
				Format:  string(outputVal),
			})
		},
	}

	cmd.Flags().Var(&versionVal, "version", "Dialect whose metaschema applies when the schema has no $schema")
	cmd.Flags().VarP(&outputVal, "output", "o", "Output format (text, json)")
	return cmd
}
