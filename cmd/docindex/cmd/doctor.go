package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/docindex/internal/errors"
	"github.com/Aman-CERP/docindex/internal/preflight"
)

type doctorReport struct {
	Path    string                  `json:"path"`
	Status  string                  `json:"status"`
	Results []preflight.CheckResult `json:"results"`
}

func newDoctorCmd(a *app) *cobra.Command {
	var minDiskMB uint64

	cmd := &cobra.Command{
		Use:   "doctor <index-path>",
		Short: "Check that an index can be created or used at a path",
		Long: `Run preflight checks for the given index path: free disk space, write
permission, the open file limit, and the state of any index already there.
Exits non-zero when a required check fails.`,
		Args:        cobra.ExactArgs(1),
		Annotations: noBackend,
		RunE: func(cmd *cobra.Command, args []string) error {
			checker := preflight.New(
				preflight.WithOutput(cmd.OutOrStdout()),
				preflight.WithMinDiskSpace(minDiskMB*1024*1024),
				preflight.WithOpenTimeout(a.cfg.OpenTimeoutDuration()),
				preflight.WithVerbose(a.debug),
			)
			results := checker.RunAll(cmd.Context(), args[0])

			if a.jsonOutput {
				report := doctorReport{Path: args[0], Status: checker.SummaryStatus(results), Results: results}
				if err := a.report(cmd, report, nil); err != nil {
					return err
				}
			} else {
				checker.PrintResults(results)
			}

			if checker.HasCriticalFailures(results) {
				return errors.Newf(errors.ErrCodeIO, "preflight checks failed for %s", args[0])
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&minDiskMB, "min-disk-mb", preflight.MinDiskSpaceBytes/(1024*1024), "Free space in MB below which the disk check fails")

	return cmd
}
