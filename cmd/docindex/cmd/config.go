package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/docindex/configs"
	"github.com/Aman-CERP/docindex/internal/config"
	"github.com/Aman-CERP/docindex/internal/errors"
	"github.com/Aman-CERP/docindex/internal/output"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage user configuration",
		Long: `Manage the user configuration file.

The same file configures this CLI and every process that loads
libdocindex. Precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/docindex/config.yaml)
  3. File named by --config or $DOCINDEX_CONFIG
  4. Environment variables (DOCINDEX_*)`,
		Example: `  # Create user config from template
  docindex config init

  # Show effective configuration
  docindex config show

  # Print user config file path
  docindex config path`,
		Annotations: noBackend,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create user configuration file",
		Long: `Create the user configuration file from the annotated template.

The file is created at ~/.config/docindex/config.yaml
(or $XDG_CONFIG_HOME/docindex/config.yaml if XDG_CONFIG_HOME is set).`,
		Example: `  docindex config init
  docindex config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long:  `Show the configuration after merging all sources, or only the defaults.`,
		Example: `  docindex config show
  docindex config show --json
  docindex config show --source defaults`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runConfigShow(cmd, source)
		},
	}

	cmd.Flags().StringVar(&source, "source", "merged", "Config source: merged, defaults")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print user config file path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			return err
		},
	}
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	out := output.New(cmd.OutOrStdout())
	configPath := config.GetUserConfigPath()

	if config.UserConfigExists() && !force {
		out.Warning("User configuration already exists")
		out.Statusf("📁", "Location: %s", configPath)
		out.Newline()
		out.Status("💡", "Use --force to replace it with the template")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return errors.IOError(fmt.Sprintf("failed to create config directory for %s", configPath), err)
	}
	if err := os.WriteFile(configPath, []byte(configs.ConfigTemplate), 0o644); err != nil {
		return errors.IOError("failed to write config file", err)
	}

	out.Success("Created user configuration")
	out.Statusf("📁", "Location: %s", configPath)
	out.Newline()
	out.Status("📋", "Next steps:")
	out.Status("", "  1. Edit the file to adjust limits and logging")
	out.Status("", "  2. Run 'docindex config show' to verify")

	return nil
}

func (a *app) runConfigShow(cmd *cobra.Command, source string) error {
	var cfg *config.Config
	switch source {
	case "merged":
		cfg = a.cfg
		if cfg == nil {
			loaded, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
	case "defaults":
		cfg = config.NewConfig()
	default:
		return errors.Newf(errors.ErrCodeConfigInvalid, "unknown config source %q", source).
			WithSuggestion("use merged or defaults")
	}

	if a.jsonOutput {
		return output.New(cmd.OutOrStdout()).JSON(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.InternalError("failed to encode config", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
