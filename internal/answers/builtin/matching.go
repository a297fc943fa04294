package builtin

import "github.com/mind-engage/quiz-answers/internal/answers"

// matching pairs left-hand option ids with ids from the question's Matches.
type matching struct{ answers.Base }

// NewMatching returns the serializer for matching questions.
func NewMatching() answers.Serializer {
	return &matching{answers.Base{Key: Matching}}
}

func (s *matching) Serialize(q answers.Question, raw answers.RawAnswer) (answers.CanonicalAnswer, error) {
	pairs, ok := toStringMap(raw, asID)
	if !ok {
		return answers.CanonicalAnswer{}, answers.Validationf(q, "answer must map answer ids to match ids")
	}
	left, right := optionSet(q.Options), optionSet(q.Matches)
	for l, r := range pairs {
		if _, ok := left[l]; !ok {
			return answers.CanonicalAnswer{}, answers.Validationf(q, "unknown answer id %q", l).WithField(l)
		}
		if _, ok := right[r]; !ok {
			return answers.CanonicalAnswer{}, answers.Validationf(q, "unknown match id %q", r).WithField(l)
		}
	}
	return s.Canonical(q, map[string]any{"pairs": pairs}), nil
}

func (s *matching) DeserializeForEditing(q answers.Question, a answers.CanonicalAnswer) (answers.RawAnswer, error) {
	v, err := stored(s.Key, q, a, "pairs")
	if err != nil {
		return nil, err
	}
	pairs, ok := toStringMap(v, asID)
	if !ok {
		return nil, answers.Validationf(q, "stored pairs are not an id mapping")
	}
	return pairs, nil
}
