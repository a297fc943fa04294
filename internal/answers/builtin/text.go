package builtin

import (
	"strings"

	"github.com/mind-engage/quiz-answers/internal/answers"
)

// --- short_answer ---

type shortAnswer struct{ answers.Base }

// NewShortAnswer returns the serializer for one-line text answers.
func NewShortAnswer() answers.Serializer {
	return &shortAnswer{answers.Base{Key: ShortAnswer}}
}

func (s *shortAnswer) Serialize(q answers.Question, raw answers.RawAnswer) (answers.CanonicalAnswer, error) {
	text, ok := asText(raw)
	if !ok {
		return answers.CanonicalAnswer{}, answers.Validationf(q, "answer must be text")
	}
	text = strings.TrimSpace(text)
	if err := checkLength(q, text, ""); err != nil {
		return answers.CanonicalAnswer{}, err
	}
	return s.Canonical(q, map[string]any{"text": text}), nil
}

func (s *shortAnswer) DeserializeForEditing(q answers.Question, a answers.CanonicalAnswer) (answers.RawAnswer, error) {
	return storedText(s.Key, q, a)
}

// --- essay ---

// essay keeps the text as written; it only has to be present.
type essay struct{ answers.Base }

// NewEssay returns the serializer for free-text essays.
func NewEssay() answers.Serializer {
	return &essay{answers.Base{Key: Essay}}
}

func (s *essay) Serialize(q answers.Question, raw answers.RawAnswer) (answers.CanonicalAnswer, error) {
	if raw == nil {
		return answers.CanonicalAnswer{}, answers.Validationf(q, "essay text is required")
	}
	text, ok := asText(raw)
	if !ok {
		return answers.CanonicalAnswer{}, answers.Validationf(q, "answer must be text")
	}
	if err := checkLength(q, text, ""); err != nil {
		return answers.CanonicalAnswer{}, err
	}
	return s.Canonical(q, map[string]any{"text": text}), nil
}

func (s *essay) DeserializeForEditing(q answers.Question, a answers.CanonicalAnswer) (answers.RawAnswer, error) {
	return storedText(s.Key, q, a)
}

func storedText(key string, q answers.Question, a answers.CanonicalAnswer) (answers.RawAnswer, error) {
	v, err := stored(key, q, a, "text")
	if err != nil {
		return nil, err
	}
	text, ok := asText(v)
	if !ok {
		return nil, answers.Validationf(q, "stored text is not a string")
	}
	return text, nil
}

// --- fill_in_multiple_blanks ---

// fillInMultipleBlanks maps blank ids (the BlankID of the question's options)
// to free text. Blanks may be left out.
type fillInMultipleBlanks struct{ answers.Base }

// NewFillInMultipleBlanks returns the serializer for fill-in-the-blanks questions.
func NewFillInMultipleBlanks() answers.Serializer {
	return &fillInMultipleBlanks{answers.Base{Key: FillInMultipleBlanks}}
}

func (s *fillInMultipleBlanks) Serialize(q answers.Question, raw answers.RawAnswer) (answers.CanonicalAnswer, error) {
	in, ok := toStringMap(raw, asText)
	if !ok {
		return answers.CanonicalAnswer{}, answers.Validationf(q, "answer must map blanks to text")
	}
	blanks := map[string]struct{}{}
	for _, o := range q.Options {
		if o.BlankID != "" {
			blanks[o.BlankID] = struct{}{}
		}
	}
	out := make(map[string]string, len(in))
	for blank, text := range in {
		if _, ok := blanks[blank]; !ok {
			return answers.CanonicalAnswer{}, answers.Validationf(q, "unknown blank %q", blank).WithField(blank)
		}
		text = strings.TrimSpace(text)
		if err := checkLength(q, text, blank); err != nil {
			return answers.CanonicalAnswer{}, err
		}
		out[blank] = text
	}
	return s.Canonical(q, map[string]any{"blanks": out}), nil
}

func (s *fillInMultipleBlanks) DeserializeForEditing(q answers.Question, a answers.CanonicalAnswer) (answers.RawAnswer, error) {
	v, err := stored(s.Key, q, a, "blanks")
	if err != nil {
		return nil, err
	}
	blanks, ok := toStringMap(v, asText)
	if !ok {
		return nil, answers.Validationf(q, "stored blanks are not a blank to text mapping")
	}
	return blanks, nil
}
