// Package perception asks a grounded language model for a matchup analysis
// and reduces the answer to a validated record.
package perception

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lolmath/internal/analysis"
	"lolmath/internal/logging"

	"github.com/google/uuid"
)

// ErrNoAnalysis is returned (wrapped) when the model answered but no valid
// record could be extracted from the answer.
var ErrNoAnalysis = errors.New("the model response did not contain a usable analysis")

// Analysis is the outcome of one Analyze call. Record is nil when extraction
// failed; Citations are populated either way.
type Analysis struct {
	ID        uuid.UUID           `json:"id"`
	Matchup   Matchup             `json:"matchup"`
	Record    *analysis.Record    `json:"record"`
	Citations []analysis.Citation `json:"citations"`
	Raw       string              `json:"-"`
	Duration  time.Duration       `json:"-"`
}

// Advisor drives a Generator for matchup analyses.
type Advisor struct {
	gen Generator
}

// NewAdvisor returns an Advisor using gen.
func NewAdvisor(gen Generator) *Advisor {
	return &Advisor{gen: gen}
}

// Analyze validates m, prompts the generator and resolves the answer.
//
// A generator failure is returned as-is (wrapped) with a nil Analysis. An
// answer without a usable record returns a non-nil Analysis with a nil
// Record and an error wrapping both ErrNoAnalysis and the extraction cause.
func (a *Advisor) Analyze(ctx context.Context, m Matchup) (*Analysis, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matchup: %w", err)
	}

	timer := logging.StartTimer(logging.CategoryPerception, "Analyze")
	defer timer.StopWithThreshold(90 * time.Second)

	id := uuid.New()
	logging.Perception("analysis %s: %s", id, m)

	start := time.Now()
	text, gm, err := a.gen.Generate(ctx, BuildPrompt(m))
	if err != nil {
		return nil, fmt.Errorf("analysis %s: %w", id, err)
	}

	rec, citations, err := analysis.ResolveWithError(text, gm)
	out := &Analysis{
		ID:        id,
		Matchup:   m,
		Citations: citations,
		Raw:       text,
		Duration:  time.Since(start),
	}
	if err != nil {
		logging.PerceptionError("analysis %s: no record in %d bytes: %v", id, len(text), err)
		return out, fmt.Errorf("%w: %w", ErrNoAnalysis, err)
	}
	out.Record = rec

	logging.Perception("analysis %s: win rate %s on patch %s, %d sources",
		id, rec.WinRatePrediction, rec.Patch, len(out.Citations))
	return out, nil
}
