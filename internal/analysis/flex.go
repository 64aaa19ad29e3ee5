package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrScoreMissing    = errors.New("score missing")
	ErrScoreNotNumeric = errors.New("score is not numeric")
)

// leadingNumber mirrors parseInt-style leniency: "85", "85/100" and "85 points" all read as 85.
var leadingNumber = regexp.MustCompile(`^[+-]?\d+(\.\d+)?`)

// FlexScore holds a score exactly as the service sent it, number or string.
type FlexScore struct {
	raw json.RawMessage
}

func (s *FlexScore) UnmarshalJSON(b []byte) error {
	s.raw = append(s.raw[:0], b...)
	return nil
}

func (s FlexScore) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return s.raw, nil
}

// Raw is the score's JSON text, "" when absent.
func (s FlexScore) Raw() string {
	return string(s.raw)
}

// Int reads the score as a whole number, rounding fractions. It does not clamp to the score
// range; values beyond ±2^30 saturate there.
func (s FlexScore) Int() (int, error) {
	raw := bytes.TrimSpace(s.raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, ErrScoreMissing
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return roundSaturated(f), nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrScoreNotNumeric, raw)
	}
	m := leadingNumber.FindString(strings.TrimSpace(str))
	if m == "" {
		return 0, fmt.Errorf("%w: %q", ErrScoreNotNumeric, str)
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrScoreNotNumeric, str)
	}
	return roundSaturated(f), nil
}

// scoreLimit keeps absurd scores far outside [MinScore, MaxScore] but inside int range, so
// callers still see them as out of range after conversion.
const scoreLimit = 1 << 30

func roundSaturated(f float64) int {
	return int(math.Round(math.Max(-scoreLimit, math.Min(scoreLimit, f))))
}

// FlexString accepts a JSON string or number ("5+" or 5 years).
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = FlexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*s = FlexString(n.String())
	return nil
}
