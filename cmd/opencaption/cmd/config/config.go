package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"opencaption/cmd/opencaption/cmd/cmdutil"
	appconfig "opencaption/internal/config"
)

var force bool

func init() {
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	Cmd.AddCommand(initCmd)
	Cmd.AddCommand(showCmd)
}

// Cmd represents the config command
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Create or inspect the configuration file",
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "opencaption.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
		if err := appconfig.Save(appconfig.Default(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "configuration written to %s\n", path)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cmdutil.LoadConfig()
		if err != nil {
			return err
		}
		if cfg.Transcriber.OpenAIAPIKey != "" {
			cfg.Transcriber.OpenAIAPIKey = "***"
		}
		if cfg.Minio.SecretKey != "" {
			cfg.Minio.SecretKey = "***"
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		enc.SetIndent(2)
		return enc.Encode(cfg)
	},
}
