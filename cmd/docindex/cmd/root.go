// Package cmd provides the CLI commands for docindex.
package cmd

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/docindex/internal/config"
	"github.com/Aman-CERP/docindex/internal/errors"
	"github.com/Aman-CERP/docindex/internal/logging"
	"github.com/Aman-CERP/docindex/internal/profiling"
	"github.com/Aman-CERP/docindex/pkg/version"
)

// app carries the global flags and the per-run state built from them.
type app struct {
	configPath string
	libPath    string
	camel      bool
	debug      bool
	jsonOutput bool
	profile    profiling.Config

	cfg            *config.Config
	backend        Backend
	profiler       *profiling.Profiler
	loggingCleanup func()
}

// NewRootCmd creates the root command for the docindex CLI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "docindex",
		Short: "Create, validate and fill schema-driven document indexes",
		Long: `docindex manages on-disk full-text indexes described by a JSON schema
and ingests JSON documents into them.

The same operations are available to other languages through the
libdocindex shared library. Pass --lib to drive a built library instead of
the in-process implementation.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("docindex version {{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Config file (default $DOCINDEX_CONFIG or ~/.config/docindex/config.yaml)")
	pf.StringVar(&a.libPath, "lib", "", "Drive this libdocindex shared library instead of the in-process engine")
	pf.BoolVar(&a.camel, "camel", false, "With --lib, bind the DocIndexCamelCase symbols")
	pf.BoolVar(&a.debug, "debug", false, "Enable debug logging to ~/.docindex/logs/")
	pf.BoolVar(&a.jsonOutput, "json", false, "Output as JSON")
	pf.StringVar(&a.profile.CPU, "profile-cpu", "", "Write CPU profile to file")
	pf.StringVar(&a.profile.Heap, "profile-mem", "", "Write memory profile to file")
	pf.StringVar(&a.profile.Trace, "profile-trace", "", "Write execution trace to file")

	cmd.PersistentPreRunE = a.start
	cmd.PersistentPostRunE = a.stop

	cmd.AddCommand(newCreateCmd(a))
	cmd.AddCommand(newOpenCmd(a))
	cmd.AddCommand(newExistsCmd(a))
	cmd.AddCommand(newDeleteCmd(a))
	cmd.AddCommand(newIngestCmd(a))
	cmd.AddCommand(newWatchCmd(a))
	cmd.AddCommand(newInfoCmd(a))
	cmd.AddCommand(newDoctorCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// start loads configuration, then sets up logging, profiling and the backend.
func (a *app) start(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logCfg := logging.Config{
		Level:         cfg.Logging.Level,
		FilePath:      cfg.Logging.File,
		MaxSizeMB:     cfg.Logging.MaxSizeMB,
		MaxFiles:      cfg.Logging.MaxFiles,
		WriteToStderr: false,
	}
	if a.debug {
		logCfg = logging.DebugConfig()
		logCfg.WriteToStderr = false
	}
	cleanup, err := logging.SetupDefault(logCfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	a.loggingCleanup = cleanup

	if a.profile.Enabled() {
		if a.profiler, err = profiling.Start(a.profile); err != nil {
			return err
		}
	}

	if !needsBackend(cmd) {
		return nil
	}
	a.backend, err = newBackend(cfg, a.libPath, a.camel)
	return err
}

// stop releases everything start acquired.
func (a *app) stop(_ *cobra.Command, _ []string) error {
	var errs []error
	if a.backend != nil {
		errs = append(errs, a.backend.Shutdown())
		a.backend = nil
	}
	if a.profiler != nil {
		errs = append(errs, a.profiler.Stop())
		a.profiler = nil
	}
	if a.loggingCleanup != nil {
		a.loggingCleanup()
		a.loggingCleanup = nil
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// needsBackend is false for commands that never touch an index.
func needsBackend(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations["backend"] == "none" {
			return false
		}
	}
	return true
}

var noBackend = map[string]string{"backend": "none"}

// errAbsent reports a negative answer from exists --quiet.
var errAbsent = stderrors.New("index absent")

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		if stderrors.Is(err, errAbsent) {
			return 3
		}
		if jsonFlag, _ := cmd.PersistentFlags().GetBool("json"); jsonFlag {
			if data, jerr := errors.FormatJSON(err); jerr == nil {
				fmt.Fprintln(os.Stderr, string(data))
				return exitCode(err)
			}
		}
		fmt.Fprint(os.Stderr, errors.FormatForCLI(err))
		slog.Debug("command_failed", slog.Any("error", errors.FormatForLog(err)))
		return exitCode(err)
	}
	return 0
}

// exitCode is 2 for invalid input and 1 for everything else.
func exitCode(err error) int {
	if errors.GetCategory(err) == errors.CategoryValidation {
		return 2
	}
	return 1
}
