package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjhoekstra/florijn/internal/common"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Engine.EvalCacheSize)
	assert.Equal(t, 1000, cfg.Engine.RegexCacheSize)
	assert.Equal(t, 10, cfg.Engine.ParallelThreshold)
	assert.Equal(t, 25, cfg.Engine.BatchSize)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.NotEmpty(t, cfg.Database.Path)
	assert.NotContains(t, cfg.Database.Path, "$HOME")
}

func TestLoadOverridesFromViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("database.path", "/tmp/florijn-test/florijn.db")
	viper.Set("engine.eval_cache_size", 64)
	viper.Set("engine.regex_cache_size", 16)
	viper.Set("engine.parallel_threshold", 2)
	viper.Set("engine.batch_size", 4)
	viper.Set("logging.level", "debug")
	viper.Set("logging.format", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/florijn-test/florijn.db", cfg.Database.Path)
	assert.Equal(t, 64, cfg.Engine.EvalCacheSize)
	assert.Equal(t, 16, cfg.Engine.RegexCacheSize)
	assert.Equal(t, 2, cfg.Engine.ParallelThreshold)
	assert.Equal(t, 4, cfg.Engine.BatchSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "zero eval cache", key: "engine.eval_cache_size", value: 0},
		{name: "negative regex cache", key: "engine.regex_cache_size", value: -1},
		{name: "zero parallel threshold", key: "engine.parallel_threshold", value: 0},
		{name: "negative batch size", key: "engine.batch_size", value: -25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			viper.Set(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("FLORIJN_TEST_DIR", "/srv/florijn")

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "empty path", path: "", want: ""},
		{name: "plain path", path: "/var/lib/florijn.db", want: "/var/lib/florijn.db"},
		{name: "bare tilde", path: "~", want: home},
		{name: "tilde prefix", path: "~/data/florijn.db", want: filepath.Join(home, "data", "florijn.db")},
		{name: "environment variable", path: "$FLORIJN_TEST_DIR/florijn.db", want: "/srv/florijn/florijn.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.path))
		})
	}
}
