// Package config provides configuration loading for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mjhoekstra/florijn/internal/cache"
	"github.com/mjhoekstra/florijn/internal/common"
	"github.com/mjhoekstra/florijn/internal/trigger"
)

// DefaultDatabasePath is used when no database path is configured.
const DefaultDatabasePath = "$HOME/.local/share/florijn/florijn.db"

// Config holds the full application configuration.
type Config struct {
	Database DatabaseConfig
	Logging  LoggingConfig
	Engine   EngineConfig
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	Path string
}

// EngineConfig sizes the engine caches and trigger evaluation batches.
type EngineConfig struct {
	EvalCacheSize     int
	RegexCacheSize    int
	ParallelThreshold int
	BatchSize         int
}

// LoggingConfig configures the process-wide slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// Default returns the built-in configuration defaults.
func Default() Config {
	evalDefaults := trigger.DefaultConfig()
	return Config{
		Database: DatabaseConfig{Path: DefaultDatabasePath},
		Engine: EngineConfig{
			EvalCacheSize:     cache.DefaultResultCapacity,
			RegexCacheSize:    cache.DefaultRegexCapacity,
			ParallelThreshold: evalDefaults.SequentialCutoff,
			BatchSize:         evalDefaults.BatchSize,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load builds the application configuration from Viper.
// It follows this precedence:
// 1. Viper configuration (flags, FLORIJN_ env vars, config file)
// 2. Default values
func Load() (*Config, error) {
	config := Default()

	if v := viper.GetString("database.path"); v != "" {
		config.Database.Path = v
	}
	if viper.IsSet("engine.eval_cache_size") {
		config.Engine.EvalCacheSize = viper.GetInt("engine.eval_cache_size")
	}
	if viper.IsSet("engine.regex_cache_size") {
		config.Engine.RegexCacheSize = viper.GetInt("engine.regex_cache_size")
	}
	if viper.IsSet("engine.parallel_threshold") {
		config.Engine.ParallelThreshold = viper.GetInt("engine.parallel_threshold")
	}
	if viper.IsSet("engine.batch_size") {
		config.Engine.BatchSize = viper.GetInt("engine.batch_size")
	}
	if v := viper.GetString("logging.level"); v != "" {
		config.Logging.Level = v
	}
	if v := viper.GetString("logging.format"); v != "" {
		config.Logging.Format = v
	}

	config.Database.Path = ExpandPath(config.Database.Path)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the configuration for values the application cannot run with.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is empty", common.ErrMissingConfig)
	}
	if c.Engine.EvalCacheSize <= 0 {
		return fmt.Errorf("%w: engine.eval_cache_size must be positive", common.ErrInvalidConfig)
	}
	if c.Engine.RegexCacheSize <= 0 {
		return fmt.Errorf("%w: engine.regex_cache_size must be positive", common.ErrInvalidConfig)
	}
	if c.Engine.ParallelThreshold <= 0 {
		return fmt.Errorf("%w: engine.parallel_threshold must be positive", common.ErrInvalidConfig)
	}
	if c.Engine.BatchSize <= 0 {
		return fmt.Errorf("%w: engine.batch_size must be positive", common.ErrInvalidConfig)
	}
	return nil
}

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// First expand tilde if present
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	// Then expand environment variables
	return os.ExpandEnv(path)
}
