package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/docindex/internal/errors"
	"github.com/Aman-CERP/docindex/internal/output"
)

func newCreateCmd(a *app) *cobra.Command {
	var schemaFile string

	cmd := &cobra.Command{
		Use:   "create <index-path>",
		Short: "Create an empty index from a JSON schema",
		Long: `Create a new index directory at the given path.

The schema is a JSON array of field definitions, read from --schema
(use "-" for stdin). Creating over an existing index fails.`,
		Example: `  docindex create ./idx --schema schema.json
  cat schema.json | docindex create ./idx --schema -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readSchema(cmd.InOrStdin(), schemaFile)
			if err != nil {
				return err
			}
			if err := a.backend.CreateIndex(args[0], string(data)); err != nil {
				return err
			}
			return a.report(cmd, map[string]any{"path": args[0], "created": true},
				func(out *output.Writer) { out.Successf("Created index at %s", args[0]) })
		},
	}

	cmd.Flags().StringVarP(&schemaFile, "schema", "s", "", "Schema JSON file, or - for stdin (required)")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func readSchema(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.IOError("failed to read schema from stdin", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("failed to read schema %s", name), err)
	}
	return data, nil
}

// report prints v as JSON under --json and calls human otherwise.
func (a *app) report(cmd *cobra.Command, v any, human func(*output.Writer)) error {
	out := output.New(cmd.OutOrStdout())
	if a.jsonOutput {
		return out.JSON(v)
	}
	human(out)
	return nil
}
