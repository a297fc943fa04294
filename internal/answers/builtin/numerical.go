package builtin

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/mind-engage/quiz-answers/internal/answers"
)

// numerical accepts a number or numeric text and enforces the optional
// meta.min / meta.max range of the question.
type numerical struct{ answers.Base }

// NewNumerical returns the serializer for numeric answers.
func NewNumerical() answers.Serializer {
	return &numerical{answers.Base{Key: Numerical}}
}

func (s *numerical) Serialize(q answers.Question, raw answers.RawAnswer) (answers.CanonicalAnswer, error) {
	v, ok := asFloat(raw)
	if !ok {
		return answers.CanonicalAnswer{}, answers.Validationf(q, "answer must be a number")
	}
	if lo, ok := metaFloat(q.Meta, "min"); ok && v < lo {
		return answers.CanonicalAnswer{}, answers.Validationf(q, "answer %v is below the minimum %v", v, lo)
	}
	if hi, ok := metaFloat(q.Meta, "max"); ok && v > hi {
		return answers.CanonicalAnswer{}, answers.Validationf(q, "answer %v is above the maximum %v", v, hi)
	}
	return s.Canonical(q, map[string]any{"value": v}), nil
}

func (s *numerical) DeserializeForEditing(q answers.Question, a answers.CanonicalAnswer) (answers.RawAnswer, error) {
	v, err := stored(s.Key, q, a, "value")
	if err != nil {
		return nil, err
	}
	f, ok := asFloat(v)
	if !ok {
		return nil, answers.Validationf(q, "stored value is not a number")
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

func asFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		x, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	case string:
		x, ok := parseFloatLoose(t)
		if !ok {
			return 0, false
		}
		f = x
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseFloatLoose accepts "3.5" as well as "3.5 cm".
func parseFloatLoose(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}
	if sp := strings.Fields(s); len(sp) > 0 {
		if v, err := strconv.ParseFloat(sp[0], 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

func metaFloat(meta map[string]any, key string) (float64, bool) {
	v, ok := meta[key]
	if !ok || v == nil {
		return 0, false
	}
	return asFloat(v)
}
