package builtin

import "github.com/mind-engage/quiz-answers/internal/answers"

// fileUpload records attachment ids. Uploading and quota checks happen before
// the answer reaches this serializer.
type fileUpload struct{ answers.Base }

// NewFileUpload returns the serializer for attachment answers.
func NewFileUpload() answers.Serializer {
	return &fileUpload{answers.Base{Key: FileUpload}}
}

func (s *fileUpload) Serialize(q answers.Question, raw answers.RawAnswer) (answers.CanonicalAnswer, error) {
	ids, ok := toIDSlice(raw)
	if !ok {
		return answers.CanonicalAnswer{}, answers.Validationf(q, "answer must be a list of attachment ids")
	}
	return s.Canonical(q, map[string]any{"attachments": ids}), nil
}

func (s *fileUpload) DeserializeForEditing(q answers.Question, a answers.CanonicalAnswer) (answers.RawAnswer, error) {
	v, err := stored(s.Key, q, a, "attachments")
	if err != nil {
		return nil, err
	}
	ids, ok := toIDSlice(v)
	if !ok {
		return nil, answers.Validationf(q, "stored attachments are not a list of ids")
	}
	return ids, nil
}
