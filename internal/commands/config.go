package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/askchat/internal/config"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize configuration",
		Long: `Inspect the askchat configuration.

The file lives in ~/.askchat/config.json (or $ASKCHAT_HOME). Values from a
.env file and ASKCHAT_* environment variables override it, and command-line
flags override both.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config and log file paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			logPath, err := config.GetLogPath(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config: %s\nlog:    %s\n", configPath, logPath)
			return nil
		},
	})

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
			}
			if err := config.SaveConfig(config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
			return nil
		},
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd)

	return cmd
}

var configCmd = NewConfigCmd(deps)
