package analysis

import (
	"errors"

	"lolmath/internal/logging"

	"google.golang.org/genai"
)

// Resolve reduces a model answer to a record and its citations. The record
// is nil when neither extraction stage yields a valid record; citations are
// recovered regardless.
func Resolve(raw string, gm *genai.GroundingMetadata) (*Record, []Citation) {
	rec, citations, _ := ResolveWithError(raw, gm)
	return rec, citations
}

// ResolveWithError is Resolve that also reports why no record was found.
// The error is an *ExtractionError whenever the record is nil.
func ResolveWithError(raw string, gm *genai.GroundingMetadata) (*Record, []Citation, error) {
	return resolve(raw, Citations(gm))
}

// ResolveJSON is Resolve with grounding metadata supplied as raw JSON.
func ResolveJSON(raw string, metadataJSON []byte) (*Record, []Citation) {
	rec, citations, _ := resolve(raw, CitationsFromJSON(metadataJSON))
	return rec, citations
}

func resolve(raw string, citations []Citation) (*Record, []Citation, error) {
	rec, err := Extract(raw)
	if err != nil {
		logExtractionFailure(err, len(raw))
		return nil, citations, err
	}

	logging.ResolverDebug("resolved %s vs %s (%s), %d citations",
		rec.Champion, rec.Opponent, rec.Role, len(citations))
	return rec, citations, nil
}

func logExtractionFailure(err error, size int) {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		logging.Resolver("no record in %d bytes of text (stage=%s): %v", size, ee.Stage, ee.Err)
		return
	}
	logging.Resolver("no record in %d bytes of text: %v", size, err)
}
