// Package answers converts raw quiz submissions into canonical answers and back.
//
// Every question type is handled by a Serializer registered on a Registry under
// the type key it claims. Callers resolve a Question to its Serializer and then
// call Serialize (submission shape -> canonical) or DeserializeForEditing
// (canonical -> submission shape, for re-rendering a stored answer).
//
// Question types with no registered serializer resolve to the Unknown fallback.
// That is not an error: the raw answer is kept opaque and the result is flagged
// Unrecognized so graders treat it as manual.
package answers

import "strings"

// Option is one declared answer option of a question.
type Option struct {
	ID      string `json:"id" yaml:"id"`
	Text    string `json:"text,omitempty" yaml:"text,omitempty"`
	BlankID string `json:"blank_id,omitempty" yaml:"blank_id,omitempty"` // dropdown/blank the option belongs to
}

// Question is the descriptor a serializer needs to interpret a raw answer.
// It is owned by the caller and never modified here.
type Question struct {
	ID      string         `json:"id" yaml:"id"`
	Type    string         `json:"type" yaml:"type"` // multiple_choice, essay, numerical, ...
	Options []Option       `json:"options,omitempty" yaml:"options,omitempty"`
	Matches []Option       `json:"matches,omitempty" yaml:"matches,omitempty"` // right-hand side of matching questions
	Correct []string       `json:"correct,omitempty" yaml:"correct,omitempty"`
	Points  float64        `json:"points,omitempty" yaml:"points,omitempty"`
	Meta    map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// RawAnswer is an answer in submission-time shape: string, bool, number, list or
// mapping, typically as produced by encoding/json.
type RawAnswer = any

// CanonicalAnswer is the normalized, storable form of an answer.
type CanonicalAnswer struct {
	Serializer   string `json:"serializer"` // type key of the serializer that produced it
	QuestionID   string `json:"question_id,omitempty"`
	Value        any    `json:"value"`
	Unrecognized bool   `json:"unrecognized"`
}

// Serializer converts answers of one question type.
type Serializer interface {
	// TypeKey is the question type this serializer claims. It must not change.
	TypeKey() string
	// Serialize validates raw against q and returns its canonical form.
	// Structural mismatches are reported as a validation *Error.
	Serialize(q Question, raw RawAnswer) (CanonicalAnswer, error)
	// DeserializeForEditing turns a stored canonical answer back into the
	// submission shape accepted by Serialize.
	DeserializeForEditing(q Question, a CanonicalAnswer) (RawAnswer, error)
}

// Base can be embedded by serializers. It supplies TypeKey and reports
// Serialize and DeserializeForEditing as unsupported until they are overridden.
type Base struct {
	Key string
}

func (b Base) TypeKey() string { return b.Key }

func (b Base) Serialize(q Question, _ RawAnswer) (CanonicalAnswer, error) {
	return CanonicalAnswer{}, Unsupported(b.Key, "serialize")
}

func (b Base) DeserializeForEditing(q Question, _ CanonicalAnswer) (RawAnswer, error) {
	return nil, Unsupported(b.Key, "deserialize_for_editing")
}

// Canonical builds a recognized canonical answer for q.
func (b Base) Canonical(q Question, v any) CanonicalAnswer {
	return CanonicalAnswer{Serializer: b.Key, QuestionID: q.ID, Value: v}
}

const questionSuffix = "_question"

// NormalizeType maps a question type to the key it is registered under.
// "multiple_choice_question" and "multiple_choice" are the same key.
func NormalizeType(t string) string {
	t = strings.TrimSpace(t)
	if k := strings.TrimSuffix(t, questionSuffix); k != "" {
		return k
	}
	return t
}

// Handles reports whether s claims the type of q.
func Handles(s Serializer, q Question) bool {
	return s != nil && NormalizeType(s.TypeKey()) == NormalizeType(q.Type)
}
