package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// Load stages reported by LoadError.
const (
	StageVersion   = "version"
	StageChampions = "champions"
	StageItems     = "items"
	StageRunes     = "runes"
	StageSummoners = "summoners"
)

// ErrNotLoaded is returned by callers that need a ready catalog.
var ErrNotLoaded = errors.New("catalog not loaded")

// LoadError reports a failed bulk load. The snapshot is left empty.
type LoadError struct {
	Stage string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("catalog load failed at %s: %v", e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// StatusError is a non-200 response from Data Dragon.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Retryable reports whether the request may succeed if repeated.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
