package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonscope/internal/config"
)

// NewConfigGetCmd creates the config get command.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one effective configuration value",
		Example: `  carbonscope config get output.precision
  carbonscope config get calculator.default_region`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return err
			}
			cmd.Println(v)
			return nil
		},
	}
}

// NewConfigListCmd creates the config list command.
func NewConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every effective configuration value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			values := config.GetGlobalConfig().List()
			for _, k := range config.Keys() {
				cmd.Printf("%s=%s\n", k, values[k])
			}
			return nil
		},
	}
}

// NewConfigSetCmd creates the config set command. It edits the configuration
// file directly: environment overrides are not written back.
func NewConfigSetCmd() *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Sets one dotted key in a configuration file and validates the result
before saving. Inside a project the project file is edited unless --global
is given.`,
		Example: `  carbonscope config set output.default_format json
  carbonscope config set calculator.default_region US --global
  carbonscope config set server.rate_limit_per_minute 300`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Default().ConfigPath()
			if dir := config.GetResolvedProjectDir(); dir != "" && !global {
				path = filepath.Join(dir, "config.yaml")
			}

			cfg, err := loadConfigFile(path)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("refusing to save invalid configuration: %w", err)
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			cmd.Printf("Set %s in %s\n", args[0], path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "edit the global configuration even inside a project")

	return cmd
}

// loadConfigFile returns defaults overlaid with path, or plain defaults when
// path does not exist. Unlike config.New it fails on a malformed file and
// ignores the environment.
func loadConfigFile(path string) (*config.Config, error) {
	cfg := config.Default()
	cfg.SetConfigPath(path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if err := cfg.Load(path); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return cfg, nil
}
