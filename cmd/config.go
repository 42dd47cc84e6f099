package cmd

import (
	"fmt"
	"os"

	"github.com/dukerupert/wgpeerctl/internal/settings"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage wgpeerctl settings",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with defaults",
	RunE:  runConfigInit,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Print the effective settings",
	RunE:  runConfigView,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configViewCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := cfgPath
	if path == "" {
		path = settings.Path()
	}

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Settings already exist at %s\n", path)
		return nil
	}
	if err := settings.WriteDefault(path); err != nil {
		return err
	}
	fmt.Printf("Settings written to %s\n", path)
	return nil
}

func runConfigView(cmd *cobra.Command, args []string) error {
	// cfg already carries file and environment overrides; print that rather
	// than the raw file so the output reflects what the tool will do.
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
