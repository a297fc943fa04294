// Package builtin holds the serializers for the question types the platform ships with.
package builtin

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/mind-engage/quiz-answers/internal/answers"
)

// Type keys of the built-in serializers.
const (
	MultipleChoice       = "multiple_choice"
	TrueFalse            = "true_false"
	MultipleAnswers      = "multiple_answers"
	MultipleDropdowns    = "multiple_dropdowns"
	ShortAnswer          = "short_answer"
	Essay                = "essay"
	FillInMultipleBlanks = "fill_in_multiple_blanks"
	Numerical            = "numerical"
	Matching             = "matching"
	FileUpload           = "file_upload"
)

// MaxTextLength caps free-text answers, in bytes.
const MaxTextLength = 16 * 1024

// All returns a fresh instance of every built-in serializer.
// New question types are added here and nowhere else.
func All() []answers.Serializer {
	return []answers.Serializer{
		NewMultipleChoice(),
		NewTrueFalse(),
		NewMultipleAnswers(),
		NewMultipleDropdowns(),
		NewShortAnswer(),
		NewEssay(),
		NewFillInMultipleBlanks(),
		NewNumerical(),
		NewMatching(),
		NewFileUpload(),
	}
}

// RegisterAll registers every built-in serializer on r.
func RegisterAll(r *answers.Registry) error {
	for _, s := range All() {
		if err := r.Register(s); err != nil {
			return err
		}
	}
	return nil
}

// Default returns a registry holding all built-in serializers.
func Default() *answers.Registry {
	r := answers.NewRegistry()
	r.MustRegister(All()...)
	return r
}

// --- helpers shared by the serializers ---

// asID accepts option identifiers sent as strings or JSON numbers.
func asID(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

func toIDSlice(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		out := make([]string, 0, len(t))
		for _, e := range t {
			id, ok := asID(e)
			if !ok {
				return nil, false
			}
			out = append(out, id)
		}
		return out, true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			id, ok := asID(e)
			if !ok {
				return nil, false
			}
			out = append(out, id)
		}
		return out, true
	default:
		return nil, false
	}
}

// toStringMap reads a mapping whose values are converted by conv.
func toStringMap(v any, conv func(any) (string, bool)) (map[string]string, bool) {
	switch t := v.(type) {
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, e := range t {
			s, ok := conv(e)
			if !ok {
				return nil, false
			}
			out[k] = s
		}
		return out, true
	case map[string]any:
		out := make(map[string]string, len(t))
		for k, e := range t {
			s, ok := conv(e)
			if !ok {
				return nil, false
			}
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func asText(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func toSet(arr []string) map[string]struct{} {
	m := make(map[string]struct{}, len(arr))
	for _, s := range arr {
		m[s] = struct{}{}
	}
	return m
}

func optionSet(opts []answers.Option) map[string]struct{} {
	m := make(map[string]struct{}, len(opts))
	for _, o := range opts {
		m[o.ID] = struct{}{}
	}
	return m
}

// stored extracts a field from a canonical answer produced by serializer key.
func stored(key string, q answers.Question, a answers.CanonicalAnswer, field string) (any, error) {
	if a.Serializer != "" && answers.NormalizeType(a.Serializer) != key {
		return nil, answers.Validationf(q, "answer was produced by %q, not %q", a.Serializer, key)
	}
	m, ok := a.Value.(map[string]any)
	if !ok {
		return nil, answers.Validationf(q, "stored %s answer is not an object", key)
	}
	v, ok := m[field]
	if !ok {
		return nil, answers.Validationf(q, "stored %s answer has no %q", key, field).WithField(field)
	}
	return v, nil
}

func checkLength(q answers.Question, s, field string) error {
	if len(s) > MaxTextLength {
		return answers.Validationf(q, "text is longer than %d bytes", MaxTextLength).WithField(field)
	}
	return nil
}
