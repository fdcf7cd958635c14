package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lolmath/internal/catalog"
	"lolmath/internal/logging"
	"lolmath/internal/perception"

	"gopkg.in/yaml.v3"
)

// Config holds all lolmath configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Generative service
	LLM LLMConfig `yaml:"llm"`

	// Data Dragon catalog
	Catalog CatalogConfig `yaml:"catalog"`

	// HTTP API
	Server ServerConfig `yaml:"server"`

	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the generative-text service.
type LLMConfig struct {
	Provider           string  `yaml:"provider"` // gemini
	APIKey             string  `yaml:"api_key"`
	Model              string  `yaml:"model"`
	Timeout            string  `yaml:"timeout"`
	EnableGoogleSearch bool    `yaml:"enable_google_search"`
	Temperature        float32 `yaml:"temperature"`
}

// CatalogConfig configures the Data Dragon loader.
type CatalogConfig struct {
	BaseURL      string `yaml:"base_url"`
	Locale       string `yaml:"locale"`
	Version      string `yaml:"version"` // pin a version and skip versions.json
	FetchTimeout string `yaml:"fetch_timeout"`
	MaxAttempts  int    `yaml:"max_attempts"`
	RetryBackoff string `yaml:"retry_backoff"`
	CachePath    string `yaml:"cache_path"` // empty disables the sqlite cache
	AvatarURL    string `yaml:"avatar_url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level       string          `yaml:"level"`  // debug, info, warn, error
	Format      string          `yaml:"format"` // json, console
	OutputPaths []string        `yaml:"output_paths"`
	Development bool            `yaml:"development"`
	Categories  map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "lolmath",
		Version: "0.3.0",

		LLM: LLMConfig{
			Provider:           "gemini",
			Model:              "gemini-3-flash-preview",
			Timeout:            "180s",
			EnableGoogleSearch: true,
			Temperature:        1.0,
		},

		Catalog: CatalogConfig{
			BaseURL:      "https://ddragon.leagueoflegends.com",
			Locale:       "en_US",
			FetchTimeout: "15s",
			MaxAttempts:  3,
			RetryBackoff: "500ms",
			CachePath:    filepath.Join(".lolmath", "catalog.db"),
			AvatarURL:    "https://ui-avatars.com/api/",
		},

		Server: ServerConfig{
			Addr:            ":8088",
			ShutdownTimeout: "10s",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults
// (with environment overrides applied).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		logging.BootDebug("config %s not found, using defaults", path)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// GEMINI_API_KEY wins over GOOGLE_API_KEY, matching the genai SDK.
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if model := os.Getenv("LOLMATH_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if url := os.Getenv("LOLMATH_DDRAGON_URL"); url != "" {
		c.Catalog.BaseURL = strings.TrimRight(url, "/")
	}
	if v := os.Getenv("LOLMATH_DDRAGON_VERSION"); v != "" {
		c.Catalog.Version = v
	}
	if path, ok := os.LookupEnv("LOLMATH_CACHE"); ok {
		c.Catalog.CachePath = path
	}

	if addr := os.Getenv("LOLMATH_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
}

// Validate checks the settings required to call the generative service.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm api key is required (set GEMINI_API_KEY)")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm model is required")
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base_url is required")
	}
	return nil
}

// LoggingOptions converts the logging section for logging.Initialize.
func (c *Config) LoggingOptions() logging.Config {
	return logging.Config{
		Level:       c.Logging.Level,
		Format:      c.Logging.Format,
		OutputPaths: c.Logging.OutputPaths,
		Development: c.Logging.Development,
		Categories:  c.Logging.Categories,
	}
}

// CatalogOptions converts the catalog section for catalog.New.
func (c *Config) CatalogOptions() catalog.Config {
	return catalog.Config{
		BaseURL:      c.Catalog.BaseURL,
		Locale:       c.Catalog.Locale,
		Version:      c.Catalog.Version,
		FetchTimeout: c.GetFetchTimeout(),
		MaxAttempts:  c.Catalog.MaxAttempts,
		RetryBackoff: c.GetRetryBackoff(),
		AvatarURL:    c.Catalog.AvatarURL,
	}
}

// GeminiOptions converts the llm section for perception.NewGeminiGenerator.
func (c *Config) GeminiOptions() perception.GeminiConfig {
	return perception.GeminiConfig{
		APIKey:             c.LLM.APIKey,
		Model:              c.LLM.Model,
		EnableGoogleSearch: c.LLM.EnableGoogleSearch,
		Temperature:        c.LLM.Temperature,
		Timeout:            c.GetLLMTimeout(),
	}
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, 180*time.Second)
}

// GetFetchTimeout returns the per-request catalog fetch timeout.
func (c *Config) GetFetchTimeout() time.Duration {
	return parseDuration(c.Catalog.FetchTimeout, 15*time.Second)
}

// GetRetryBackoff returns the initial catalog retry backoff.
func (c *Config) GetRetryBackoff() time.Duration {
	return parseDuration(c.Catalog.RetryBackoff, 500*time.Millisecond)
}

// GetShutdownTimeout returns the HTTP server graceful shutdown timeout.
func (c *Config) GetShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
