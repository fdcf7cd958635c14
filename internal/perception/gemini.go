package perception

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lolmath/internal/logging"

	"google.golang.org/genai"
)

// Generator produces a free-form answer to a prompt along with the
// grounding metadata the model attached to it (nil when absent).
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, *genai.GroundingMetadata, error)
}

// ErrMissingAPIKey is returned when a Gemini generator is built without a key.
var ErrMissingAPIKey = errors.New("gemini API key is required (set GEMINI_API_KEY)")

// =============================================================================
// GEMINI GENERATOR
// =============================================================================

// GeminiConfig configures GeminiGenerator.
type GeminiConfig struct {
	APIKey             string
	Model              string
	EnableGoogleSearch bool
	Temperature        float32
	Timeout            time.Duration
}

// DefaultGeminiConfig returns the settings used by the web app.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:             apiKey,
		Model:              "gemini-3-flash-preview",
		EnableGoogleSearch: true,
		Temperature:        1.0,
		Timeout:            180 * time.Second,
	}
}

// GeminiGenerator implements Generator with the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	cfg    GeminiConfig
}

// NewGeminiGenerator creates a generator backed by a genai client.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiConfig("").Model
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	logging.Perception("Gemini generator ready: model=%s search=%v", cfg.Model, cfg.EnableGoogleSearch)
	return &GeminiGenerator{client: client, cfg: cfg}, nil
}

// Model returns the configured model name.
func (g *GeminiGenerator) Model() string {
	return g.cfg.Model
}

func (g *GeminiGenerator) contentConfig() *genai.GenerateContentConfig {
	temperature := g.cfg.Temperature
	cc := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if g.cfg.EnableGoogleSearch {
		cc.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	return cc
}

// Generate sends prompt to the model. The grounding metadata of the first
// candidate is returned as-is.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, *genai.GroundingMetadata, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	logging.PerceptionDebug("[Gemini] Generate: model=%s prompt_len=%d", g.cfg.Model, len(prompt))

	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt), g.contentConfig())
	if err != nil {
		logging.PerceptionError("[Gemini] Generate: request failed after %v: %v", time.Since(startTime), err)
		return "", nil, fmt.Errorf("gemini request failed: %w", err)
	}

	text := resp.Text()
	var gm *genai.GroundingMetadata
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		gm = resp.Candidates[0].GroundingMetadata
	}

	sources := 0
	if gm != nil {
		sources = len(gm.GroundingChunks)
		logging.PerceptionDebug("[Gemini] Generate: grounding chunks=%d queries=%v", sources, gm.WebSearchQueries)
	}
	logging.Perception("[Gemini] Generate: completed in %v response_len=%d grounding_sources=%d",
		time.Since(startTime), len(text), sources)

	return text, gm, nil
}
