package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/docindex/internal/output"
)

func newOpenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open <index-path>",
		Short: "Check that an index opens cleanly",
		Long: `Open the index at the given path, verify its metadata and schema, and
close it again. Exits non-zero with the failure code when the index is
missing, corrupt, or locked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.backend.OpenIndex(args[0]); err != nil {
				return err
			}
			return a.report(cmd, map[string]any{"path": args[0], "ok": true},
				func(out *output.Writer) { out.Successf("Index at %s opens cleanly", args[0]) })
		},
	}
}
