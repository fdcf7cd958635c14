package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides_LLM(t *testing.T) {
	t.Run("GOOGLE_API_KEY sets key", func(t *testing.T) {
		t.Setenv("GOOGLE_API_KEY", "google-key")
		t.Setenv("GEMINI_API_KEY", "")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "google-key", cfg.LLM.APIKey)
	})

	t.Run("Precedence: GEMINI overrides GOOGLE", func(t *testing.T) {
		t.Setenv("GOOGLE_API_KEY", "google-key")
		t.Setenv("GEMINI_API_KEY", "gemini-key")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "gemini-key", cfg.LLM.APIKey)
	})

	t.Run("LOLMATH_MODEL overrides model", func(t *testing.T) {
		t.Setenv("LOLMATH_MODEL", "gemini-2.5-pro")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	})
}

func TestEnvOverrides_Catalog(t *testing.T) {
	t.Setenv("LOLMATH_DDRAGON_URL", "http://mirror.local/")
	t.Setenv("LOLMATH_DDRAGON_VERSION", "15.2.1")
	t.Setenv("LOLMATH_CACHE", "")
	t.Setenv("LOLMATH_ADDR", "127.0.0.1:9000")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "http://mirror.local", cfg.Catalog.BaseURL)
	assert.Equal(t, "15.2.1", cfg.Catalog.Version)
	// An explicitly empty LOLMATH_CACHE disables the cache.
	assert.Empty(t, cfg.Catalog.CachePath)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestLoggingOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Categories = map[string]bool{"store": false}

	opts := cfg.LoggingOptions()
	require.NotNil(t, opts.Categories)
	assert.Equal(t, "info", opts.Level)
	assert.False(t, opts.Categories["store"])
}
