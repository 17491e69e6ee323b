package cmd

import (
	"fmt"
	"os"

	"github.com/bnema/padwatch/internal/config"
	"github.com/bnema/padwatch/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Padwatch configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.FormatHeader("Configuration"))
		fmt.Fprintln(out, ui.FormatKV("Config file", config.GetConfigPath()))
		fmt.Fprintln(out)

		for _, key := range config.Keys() {
			fmt.Fprintln(out, ui.FormatKV(key, viper.Get(key)))
		}

		if err := config.Get().Validate(); err != nil {
			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.FormatWarning(err.Error()))
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default values",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		out := cmd.OutOrStdout()

		configPath := config.GetConfigPath()
		if _, err := os.Stat(configPath); err == nil && !force {
			fmt.Fprintln(out, ui.FormatWarning(fmt.Sprintf("Config file already exists at %s (use --force to overwrite)", configPath)))
			return nil
		}

		config.Set(&config.DefaultConfig)
		if err := config.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintln(out, ui.FormatSuccess(fmt.Sprintf("Config file created at %s", configPath)))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value and save it",
	Example: `  padwatch config set hotkey.combination guide
  padwatch config set detection.trigger_mode startup-any`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetValue(args[0], args[1]); err != nil {
			return err
		}
		if err := config.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatSuccess(fmt.Sprintf("%s = %s", args[0], args[1])))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.GetConfigPath())
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
