package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hayasedb/mediadeck/internal/storage"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or manage configuration",
	Long: `View current configuration or set configuration values.

Examples:
  mediadeck config                               # Show current config
  mediadeck config set autoplay false            # Stay on an item when it ends
  mediadeck config set hwdec no                  # Disable hardware decoding
  mediadeck config set catalog ~/media/deck.yaml # Use your own catalog`,

	RunE: runConfig,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value.\n\nAvailable settings:\n" + settingsHelp(),

	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
}

func settingsHelp() string {
	var b strings.Builder
	for _, s := range storage.Settings {
		desc := s.Description
		switch {
		case s.Bool:
			desc += " (true, false)"
		case len(s.Options) > 0:
			desc += " (" + strings.Join(s.Options, ", ") + ")"
		}
		fmt.Fprintf(&b, "  %-14s %s\n", s.Key, desc)
	}
	return b.String()
}

func runConfig(*cobra.Command, []string) error {
	config, err := storage.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("current config:")
	fmt.Println()

	for _, s := range storage.Settings {
		value := config.GetString(s.Key)
		if value == "" {
			value = "(default)"
		}
		fmt.Printf("  %-14s %s\n", s.Key+":", value)
	}

	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	config, err := storage.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.SetValue(key, value); err != nil {
		return err
	}

	if err := config.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("Configuration updated: %s = %s\n", key, value)

	return nil
}
