package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/docindex/internal/output"
)

func newDeleteCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <index-path>",
		Short: "Remove an index directory",
		Long: `Remove the index directory and everything in it. Deleting a path that
does not exist succeeds. Asks for confirmation unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force && !a.jsonOutput {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete index at %s? [y/N] ", args[0])
				var answer string
				_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					output.New(cmd.OutOrStdout()).Status("", "Aborted")
					return nil
				}
			}
			if err := a.backend.DeleteIndex(args[0]); err != nil {
				return err
			}
			return a.report(cmd, map[string]any{"path": args[0], "deleted": true},
				func(out *output.Writer) { out.Successf("Deleted %s", args[0]) })
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")

	return cmd
}
