package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cgraph/internal/config"
	"cgraph/internal/errors"
)

var (
	configShowFormat string
	configInitForce  bool
	configInitHome   bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage cgraph configuration",
	Long: `View and create cgraph configuration files.

Settings are read from .cgraph.toml, .cgraph.yaml or .cgraph.json in the
working directory, then in $HOME. CGRAPH_* environment variables override
file values (CGRAPH_MAXDEPTH, CGRAPH_LOGGING_LEVEL, ...), and command line
flags override both.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Display the configuration after files and environment are applied.

Examples:
  cgraph config show                 # TOML
  cgraph config show --format json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .cgraph.toml",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configShowCmd.Flags().StringVar(&configShowFormat, "format", "toml", "Output format (toml, json, yaml)")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing file")
	configInitCmd.Flags().BoolVar(&configInitHome, "home", false, "Write to $HOME instead of the working directory")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch configShowFormat {
	case "toml":
		err = cfg.WriteTOML(out)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(cfg)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err = enc.Encode(cfg); err == nil {
			err = enc.Close()
		}
	default:
		return usageError(cmd, "unknown format %q (want toml, json or yaml)", configShowFormat)
	}
	return err
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if configInitHome {
		dir, err = os.UserHomeDir()
	}
	if err != nil {
		return errors.Config("cannot determine target directory", err)
	}

	path := filepath.Join(dir, config.FileName+".toml")
	if err := config.DefaultConfig().Save(path, configInitForce); err != nil {
		if os.IsExist(err) {
			return errors.Config(path+" already exists (use --force to overwrite)", nil)
		}
		return errors.IO(path, pathCause(err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
