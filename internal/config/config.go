// Package config provides configuration management for auratheme using Viper.
// It supports configuration from files, environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmylchreest/auratheme/internal/models"
	"github.com/spf13/viper"
)

// Default configuration values.
const (
	defaultServerPort      = 80
	defaultServerTimeout   = 15 * time.Second
	defaultShutdownTimeout = 5 * time.Second
	defaultMaxOpenConns    = 4
	defaultMaxIdleConns    = 2
	defaultConnMaxIdleTime = 30 * time.Minute
	defaultRequestBacklog  = 16
	defaultBacklogTimeout  = 10 * time.Second
	defaultApplyDelay      = 500 * time.Millisecond
	defaultNamespace       = "theme"
	defaultIndexFile       = "index.html"
)

// Restart modes understood by the serve command.
const (
	RestartModeExit = "exit"
	RestartModeExec = "exec"
	RestartModeNone = "none"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Theme    ThemeConfig    `mapstructure:"theme"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`

	// RequestBacklog is how many requests may wait while one is being handled.
	RequestBacklog int           `mapstructure:"request_backlog"`
	BacklogTimeout time.Duration `mapstructure:"backlog_timeout"`
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite, postgres, mysql
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	LogLevel        string        `mapstructure:"log_level"` // silent, error, warn, info
}

// StorageConfig holds static asset configuration.
type StorageConfig struct {
	// WebDir serves the root page from disk. Empty uses the embedded page.
	WebDir    string `mapstructure:"web_dir"`
	IndexFile string `mapstructure:"index_file"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`  // trace, debug, info, warn, error
	Format     string `mapstructure:"format"` // json, text
	AddSource  bool   `mapstructure:"add_source"`
	TimeFormat string `mapstructure:"time_format"`

	// RequestLogging logs successful HTTP requests; failures are always logged.
	RequestLogging bool `mapstructure:"request_logging"`
}

// ThemeConfig holds theme persistence and apply behaviour.
type ThemeConfig struct {
	Namespace   string        `mapstructure:"namespace"`
	ApplyDelay  time.Duration `mapstructure:"apply_delay"`
	RestartMode string        `mapstructure:"restart_mode"` // exit, exec, none
}

// ScheduleConfig holds cron driven preset rotation.
type ScheduleConfig struct {
	Enabled bool            `mapstructure:"enabled"`
	Entries []ScheduleEntry `mapstructure:"entries"`
}

// ScheduleEntry applies Preset whenever Cron fires (5-field cron).
type ScheduleEntry struct {
	Cron   string `mapstructure:"cron" yaml:"cron"`
	Preset string `mapstructure:"preset" yaml:"preset"`
}

// Load reads configuration from file and environment variables.
// Environment variables take precedence over file configuration.
// Environment variables are prefixed with AURATHEME_ and use underscores for nesting.
// Example: AURATHEME_SERVER_PORT=8080.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/auratheme")
		v.AddConfigPath("$HOME/.auratheme")
	}

	v.SetEnvPrefix("AURATHEME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper unmarshals and validates the configuration held by v. The CLI
// uses it with the global viper instance once flags have been bound.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// SetDefaults configures default values for all configuration options.
// This is exported so the CLI can seed its global viper instance.
func SetDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.read_timeout", defaultServerTimeout)
	v.SetDefault("server.write_timeout", defaultServerTimeout)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.request_backlog", defaultRequestBacklog)
	v.SetDefault("server.backlog_timeout", defaultBacklogTimeout)

	// Database
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "auratheme.db")
	v.SetDefault("database.max_open_conns", defaultMaxOpenConns)
	v.SetDefault("database.max_idle_conns", defaultMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", defaultConnMaxIdleTime)
	v.SetDefault("database.log_level", "warn")

	// Storage
	v.SetDefault("storage.web_dir", "")
	v.SetDefault("storage.index_file", defaultIndexFile)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)
	v.SetDefault("logging.request_logging", false)

	// Theme
	v.SetDefault("theme.namespace", defaultNamespace)
	v.SetDefault("theme.apply_delay", defaultApplyDelay)
	v.SetDefault("theme.restart_mode", RestartModeExit)

	// Schedule
	v.SetDefault("schedule.enabled", false)
	v.SetDefault("schedule.entries", []ScheduleEntry{})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	const maxPort = 65535
	if c.Server.Port < 1 || c.Server.Port > maxPort {
		return fmt.Errorf("server.port must be between 1 and %d", maxPort)
	}
	if c.Server.RequestBacklog < 0 {
		return fmt.Errorf("server.request_backlog must not be negative")
	}

	validDrivers := map[string]bool{"sqlite": true, "postgres": true, "mysql": true}
	if !validDrivers[c.Database.Driver] {
		return fmt.Errorf("database.driver must be one of: sqlite, postgres, mysql")
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}

	if c.Storage.IndexFile == "" {
		return fmt.Errorf("storage.index_file is required")
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	if c.Theme.Namespace == "" {
		return fmt.Errorf("theme.namespace is required")
	}
	if c.Theme.ApplyDelay < 0 {
		return fmt.Errorf("theme.apply_delay must not be negative")
	}
	validModes := map[string]bool{RestartModeExit: true, RestartModeExec: true, RestartModeNone: true}
	if !validModes[c.Theme.RestartMode] {
		return fmt.Errorf("theme.restart_mode must be one of: exit, exec, none")
	}

	if c.Schedule.Enabled {
		for i, entry := range c.Schedule.Entries {
			if strings.TrimSpace(entry.Cron) == "" {
				return fmt.Errorf("schedule.entries[%d].cron is required", i)
			}
			if _, ok := models.PresetByID(entry.Preset); !ok {
				return fmt.Errorf("schedule.entries[%d].preset %q: %w", i, entry.Preset, models.ErrPresetNotFound)
			}
		}
	}

	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
