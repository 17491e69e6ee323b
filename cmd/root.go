package cmd

import (
	"github.com/bnema/padwatch/internal/config"
	"github.com/bnema/padwatch/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFile string

	rootCmd = &cobra.Command{
		Use:   "padwatch",
		Short: "Padwatch - game controller detection and hotkeys",
		Long: `Padwatch watches for game controllers across every input API the system
offers and reports when one connects. It also listens for a configurable
button combination on the active controller and reports each press.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initConfig,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $HOME/.config/padwatch/padwatch.toml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().Bool("log-file", false, "also write logs to $XDG_STATE_HOME/padwatch/padwatch.log")

	_ = viper.BindPFlag("logging.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.file_logging", rootCmd.PersistentFlags().Lookup("log-file"))
}

func initConfig(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		config.SetConfigPath(configFile)
	}
	if err := config.Init(); err != nil {
		return err
	}

	cfg := config.Get()
	if cfg.Logging.LogLevel != "" {
		logger.SetLevel(cfg.Logging.LogLevel)
	}
	if cfg.Logging.FileLogging {
		path, err := logger.EnableFileLogging()
		if err != nil {
			logger.Warn("File logging disabled", "err", err)
		} else {
			logger.Debug("Logging to file", "path", path)
		}
	}
	return nil
}
