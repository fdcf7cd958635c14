package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Extraction stages, in the order they are attempted.
const (
	StageFenced   = "fenced"
	StageObject   = "object"
	StageValidate = "validate"
)

// ErrNoObject means the text holds no {...} span.
var ErrNoObject = errors.New("no json object span")

// ExtractionError reports why text could not be reduced to a Record. Stage
// is the last stage attempted; Err is its cause.
type ExtractionError struct {
	Stage string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed at %s stage: %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// fencePattern matches the first ```json fenced block, lazily, so trailing
// prose containing another fence is not swallowed.
var fencePattern = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")

// FencedBlock returns the interior of the first fenced block labeled json.
func FencedBlock(raw string) (string, bool) {
	m := fencePattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// WidestObject returns the span from the first '{' to the last '}'.
func WidestObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// Extract runs both extraction stages over raw. The fenced stage is tried
// first; any failure there falls through to the widest-object stage. The
// returned error describes the last stage attempted.
func Extract(raw string) (*Record, error) {
	var lastErr error
	if block, ok := FencedBlock(raw); ok {
		rec, err := decodeRecord(StageFenced, block)
		if err == nil {
			return rec, nil
		}
		lastErr = err
	}

	span, ok := WidestObject(raw)
	if !ok {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, &ExtractionError{Stage: StageObject, Err: ErrNoObject}
	}
	return decodeRecord(StageObject, span)
}

// decodeRecord parses and validates one candidate. Syntax errors are
// attributed to stage, shape errors to the validate stage.
func decodeRecord(stage, candidate string) (*Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		return nil, &ExtractionError{Stage: stage, Err: err}
	}
	if err := validateFields(fields); err != nil {
		return nil, &ExtractionError{Stage: StageValidate, Err: err}
	}

	var rec Record
	if err := json.Unmarshal([]byte(candidate), &rec); err != nil {
		return nil, &ExtractionError{Stage: StageValidate, Err: err}
	}
	return &rec, nil
}

var jsonNull = []byte("null")

func validateFields(fields map[string]json.RawMessage) error {
	if fields == nil {
		return errors.New("top-level value is not an object")
	}
	var missing []string
	for _, key := range RequiredKeys {
		v, ok := fields[key]
		if !ok || bytes.Equal(bytes.TrimSpace(v), jsonNull) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required keys: %s", strings.Join(missing, ", "))
	}
	return nil
}
