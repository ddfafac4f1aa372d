package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekit/core/config"
)

func TestLoad(t *testing.T) {
	type guardConfig struct {
		LoginPath string `env:"TEST_CFG_LOGIN_PATH" envDefault:"/api/auth/login"`
		Patterns  []string `env:"TEST_CFG_PATTERNS" envSeparator:"," envDefault:"/protected/*"`
	}

	t.Setenv("TEST_CFG_PATTERNS", "/admin/*,/protected/*")

	var cfg guardConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "/api/auth/login", cfg.LoginPath)
	assert.Equal(t, []string{"/admin/*", "/protected/*"}, cfg.Patterns)
}

func TestLoad_CachesPerType(t *testing.T) {
	type cachedConfig struct {
		Value string `env:"TEST_CFG_CACHED" envDefault:"first"`
	}

	t.Setenv("TEST_CFG_CACHED", "first")

	var cfg1 cachedConfig
	require.NoError(t, config.Load(&cfg1))
	assert.Equal(t, "first", cfg1.Value)

	// Environment changes after the first load are invisible.
	t.Setenv("TEST_CFG_CACHED", "second")

	var cfg2 cachedConfig
	require.NoError(t, config.Load(&cfg2))
	assert.Equal(t, "first", cfg2.Value)
}

func TestLoad_RequiredMissing(t *testing.T) {
	type strictConfig struct {
		Secret string `env:"TEST_CFG_REQUIRED_SECRET,required"`
	}

	var cfg strictConfig
	assert.Error(t, config.Load(&cfg))
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	type panicConfig struct {
		Secret string `env:"TEST_CFG_PANIC_SECRET,required"`
	}

	assert.Panics(t, func() {
		var cfg panicConfig
		config.MustLoad(&cfg)
	})
}
