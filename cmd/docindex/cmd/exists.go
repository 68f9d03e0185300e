package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/docindex/internal/output"
)

func newExistsCmd(a *app) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "exists <index-path>",
		Short: "Report whether a directory holds an index",
		Long: `Report whether the path holds an index. With --quiet nothing is printed
and the exit status alone carries the answer (0 present, 3 absent).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.backend.IndexExists(args[0])
			if err != nil {
				return err
			}
			if quiet {
				if !ok {
					return errAbsent
				}
				return nil
			}
			return a.report(cmd, map[string]any{"path": args[0], "exists": ok},
				func(out *output.Writer) {
					if ok {
						out.Successf("Index exists at %s", args[0])
					} else {
						out.Warningf("No index at %s", args[0])
					}
				})
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print nothing; answer through the exit status")

	return cmd
}
