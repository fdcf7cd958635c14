package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Models routinely emit `"winRatePrediction": 52` or `"time": "10"`. The
// scalar fields below accept either JSON form; containers stay strict.

// looseText decodes a JSON string, number or boolean as text.
type looseText string

func (t *looseText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = looseText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*t = looseText(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*t = looseText(strconv.FormatBool(b))
		return nil
	}
	return fmt.Errorf("expected a string, got %s", abbreviate(data))
}

// looseNumber decodes a JSON number or a numeric string ("55", "55%").
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = looseNumber(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected a number, got %s", abbreviate(data))
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%")), 64)
	if err != nil {
		return fmt.Errorf("expected a number, got %q", s)
	}
	*n = looseNumber(f)
	return nil
}

func abbreviate(data []byte) string {
	if len(data) > 32 {
		return string(data[:32]) + "..."
	}
	return string(data)
}

// UnmarshalJSON decodes a record, accepting numbers for the top-level text
// fields.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	aux := struct {
		*plain
		Champion          looseText `json:"champion"`
		Opponent          looseText `json:"opponent"`
		Role              looseText `json:"role"`
		Patch             looseText `json:"patch"`
		WinRatePrediction looseText `json:"winRatePrediction"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Champion = string(aux.Champion)
	r.Opponent = string(aux.Opponent)
	r.Role = string(aux.Role)
	r.Patch = string(aux.Patch)
	r.WinRatePrediction = string(aux.WinRatePrediction)
	return nil
}

// UnmarshalJSON decodes a power-curve sample, accepting numeric strings.
func (p *PowerPoint) UnmarshalJSON(data []byte) error {
	var aux struct {
		Time       looseNumber `json:"time"`
		MyPower    looseNumber `json:"myPower"`
		EnemyPower looseNumber `json:"enemyPower"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = PowerPoint{Time: float64(aux.Time), MyPower: float64(aux.MyPower), EnemyPower: float64(aux.EnemyPower)}
	return nil
}
