package app

import (
	"github.com/spf13/cobra"
)

func NewValidateCmd(mgr Manager) *cobra.Command {
	var req ValidateRequest
	var schemaArg string
	var watch bool

	cmd := &cobra.Command{
		Use:   "validate -s SCHEMA [DATA...]",
		Short: "Validate JSON data against a JSON schema",
		Args:  cobra.MinimumNArgs(1),
		Example: `
VALIDATING FILES
  jsv validate -s person.schema.json alice.json bob.json
  jsv validate -s person.schema.json ./people         - every *.json file below ./people
  jsv validate -s person.schema.json 'people/*.json'

SCHEMA SOURCES
  jsv validate -s https://example.com/person.schema.json alice.json
  jsv validate -s '{"type": "object", "required": ["name"]}' alice.json
  jsv validate -s api.schema.json --fragment '#/definitions/person' alice.json

DATA SOURCES
  jsv validate -s person.schema.json --data-mode uri https://example.com/alice.json
  jsv validate -s person.schema.json --data-mode json '{"name": "alice"}'
  jsv validate -s person.schema.json --query 'payload.person' envelope.json

OTHER IMPLEMENTATIONS
  jsv validate -s person.schema.json --cross-check alice.json`,
	}

	cmd.Flags().StringVarP(&schemaArg, "schema", "s", "", "Schema file, URI or inline JSON")
	_ = cmd.MarkFlagRequired("schema")

	versionVal := dialectValue("")
	cmd.Flags().Var(&versionVal, "version", "Dialect to apply (draft1-draft4, draft6 or a metaschema URI)")
	cmd.Flags().StringVar(&req.Fragment, "fragment", "", "Validate against the sub-schema at this fragment, e.g. '#/definitions/x'")
	cmd.Flags().StringVarP(&req.Query, "query", "q", "", "Validate the part of each data file selected by this gjson path")
	modeVal := dataModeValue(DataModeFile)
	cmd.Flags().Var(&modeVal, "data-mode", "How DATA arguments are read (file, uri, json)")

	cmd.Flags().BoolVar(&req.Strict, "strict", false, "Require every declared property and reject undeclared ones")
	cmd.Flags().BoolVar(&req.List, "list", false, "Treat each data document as a list of items to validate")
	cmd.Flags().BoolVar(&req.InsertDefaults, "insert-defaults", false, "Fill absent properties from schema defaults and print the result")
	cmd.Flags().BoolVar(&req.ValidateSchema, "validate-schema", false, "Check the schema against its metaschema first")
	cmd.Flags().BoolVar(&req.CrossCheck, "cross-check", false, "Also validate with santhosh-tekuri/jsonschema and flag disagreements")

	cmd.Flags().BoolVarP(&req.Verbose, "verbose", "v", false, "Show detailed results")
	outputVal := formatValue("text")
	cmd.Flags().VarP(&outputVal, "output", "o", "Output format (text, json)")
	cmd.Flags().IntVarP(&req.Jobs, "jobs", "j", 0, "Data inputs validated in parallel (default: number of CPUs)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Watch for changes and rerun validation")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		req.Schema = schemaArg
		req.Inputs = args
		req.Version = string(versionVal)
		req.DataMode = string(modeVal)
		req.Format = string(outputVal)

		noColour, _ := cmd.Flags().GetBool("nocolour")
		req.UseColour = !noColour

		if watch {
			return mgr.WatchValidation(cmd.Context(), req, nil)
		}
		return mgr.Validate(cmd.Context(), req)
	}

	return cmd
}
