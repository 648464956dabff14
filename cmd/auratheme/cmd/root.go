// Package cmd implements the CLI commands for auratheme.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jmylchreest/auratheme/internal/config"
	"github.com/jmylchreest/auratheme/internal/observability"
	"github.com/jmylchreest/auratheme/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// cfgFile holds the config file path from CLI flag.
var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "auratheme",
	Short:   "Device color theme service",
	Version: version.Short(),
	Long: `auratheme keeps a display device's color theme in a small preference
store and serves it over HTTP, so the device can be re-skinned from a
browser without reflashing.

Saving a theme commits it and restarts the service so every consumer
re-reads the new colors on the next boot.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("executing root command: %w", err)
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return initLogging()
	}

	// Logging flags are not bound to viper; they only override env and config
	// when explicitly set (see initLogging).
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or /etc/auratheme/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (text, json)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/auratheme")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home + "/.auratheme")
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("AURATHEME")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// initLogging configures the default slog logger.
//
// Priority order (highest to lowest):
//  1. CLI flags (--log-level, --log-format), only if explicitly provided
//  2. Environment variables (AURATHEME_LOGGING_LEVEL, AURATHEME_LOGGING_FORMAT)
//  3. Config file values
//  4. Built-in defaults (info, json)
func initLogging() error {
	logCfg := loggingConfig()
	logger := observability.NewLoggerWithWriter(logCfg, os.Stderr)
	observability.SetDefault(logger.With("app", version.ApplicationName))
	observability.SetRequestLogging(logCfg.RequestLogging)
	return nil
}

func loggingConfig() config.LoggingConfig {
	level := viper.GetString("logging.level")
	format := viper.GetString("logging.format")

	if rootCmd.PersistentFlags().Changed("log-level") {
		level, _ = rootCmd.PersistentFlags().GetString("log-level")
	}
	if rootCmd.PersistentFlags().Changed("log-format") {
		format, _ = rootCmd.PersistentFlags().GetString("log-format")
	}

	if level == "" {
		level = "info"
	}
	if format == "" {
		format = "json"
	}

	cfg := config.LoggingConfig{
		Level:          strings.ToLower(level),
		Format:         strings.ToLower(format),
		AddSource:      viper.GetBool("logging.add_source"),
		TimeFormat:     viper.GetString("logging.time_format"),
		RequestLogging: viper.GetBool("logging.request_logging"),
	}
	if cfg.Level == "warning" {
		cfg.Level = "warn"
	}
	return cfg
}

// loadConfig returns the validated configuration from flags, env, file and
// defaults. Explicit logging flags win over the other sources.
func loadConfig() (*config.Config, error) {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}
	logCfg := loggingConfig()
	cfg.Logging.Level = logCfg.Level
	cfg.Logging.Format = logCfg.Format
	return cfg, nil
}

// mustBindPFlag binds a viper key to a cobra flag and panics if binding fails.
func mustBindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("failed to bind flag %q to key %q: %v", flag.Name, key, err))
	}
}
