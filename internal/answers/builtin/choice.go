package builtin

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mind-engage/quiz-answers/internal/answers"
)

// --- multiple_choice ---

type multipleChoice struct{ answers.Base }

// NewMultipleChoice returns the serializer for single-selection questions.
func NewMultipleChoice() answers.Serializer {
	return &multipleChoice{answers.Base{Key: MultipleChoice}}
}

func (s *multipleChoice) Serialize(q answers.Question, raw answers.RawAnswer) (answers.CanonicalAnswer, error) {
	id, ok := asID(raw)
	if !ok {
		return answers.CanonicalAnswer{}, answers.Validationf(q, "answer must be an option id")
	}
	if _, ok := optionSet(q.Options)[id]; !ok {
		return answers.CanonicalAnswer{}, answers.Validationf(q, "unknown answer id %q", id)
	}
	return s.Canonical(q, map[string]any{"selected": id}), nil
}

func (s *multipleChoice) DeserializeForEditing(q answers.Question, a answers.CanonicalAnswer) (answers.RawAnswer, error) {
	v, err := stored(s.Key, q, a, "selected")
	if err != nil {
		return nil, err
	}
	id, ok := asID(v)
	if !ok {
		return nil, answers.Validationf(q, "stored selection is not an option id")
	}
	return id, nil
}

// --- true_false ---

// trueFalse takes an option id when the question declares its two options,
// and a plain boolean otherwise.
type trueFalse struct{ answers.Base }

// NewTrueFalse returns the serializer for true/false questions.
func NewTrueFalse() answers.Serializer {
	return &trueFalse{answers.Base{Key: TrueFalse}}
}

func (s *trueFalse) Serialize(q answers.Question, raw answers.RawAnswer) (answers.CanonicalAnswer, error) {
	if len(q.Options) > 0 {
		id, ok := asID(raw)
		if !ok {
			return answers.CanonicalAnswer{}, answers.Validationf(q, "answer must be an option id")
		}
		if _, ok := optionSet(q.Options)[id]; !ok {
			return answers.CanonicalAnswer{}, answers.Validationf(q, "unknown answer id %q", id)
		}
		return s.Canonical(q, map[string]any{"selected": id}), nil
	}
	b, ok := asBool(raw)
	if !ok {
		return answers.CanonicalAnswer{}, answers.Validationf(q, "answer must be true or false")
	}
	return s.Canonical(q, map[string]any{"value": b}), nil
}

func (s *trueFalse) DeserializeForEditing(q answers.Question, a answers.CanonicalAnswer) (answers.RawAnswer, error) {
	if len(q.Options) > 0 {
		v, err := stored(s.Key, q, a, "selected")
		if err != nil {
			return nil, err
		}
		id, ok := asID(v)
		if !ok {
			return nil, answers.Validationf(q, "stored selection is not an option id")
		}
		return id, nil
	}
	v, err := stored(s.Key, q, a, "value")
	if err != nil {
		return nil, err
	}
	b, ok := v.(bool)
	if !ok {
		return nil, answers.Validationf(q, "stored value is not a boolean")
	}
	return b, nil
}

func asBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return b, err == nil
	default:
		return false, false
	}
}

// --- multiple_answers ---

// multipleAnswers keeps selections sorted and deduplicated; order carries no meaning.
type multipleAnswers struct{ answers.Base }

// NewMultipleAnswers returns the serializer for select-all-that-apply questions.
func NewMultipleAnswers() answers.Serializer {
	return &multipleAnswers{answers.Base{Key: MultipleAnswers}}
}

func (s *multipleAnswers) Serialize(q answers.Question, raw answers.RawAnswer) (answers.CanonicalAnswer, error) {
	ids, ok := toIDSlice(raw)
	if !ok {
		return answers.CanonicalAnswer{}, answers.Validationf(q, "answer must be a list of option ids")
	}
	valid := optionSet(q.Options)
	for _, id := range ids {
		if _, ok := valid[id]; !ok {
			return answers.CanonicalAnswer{}, answers.Validationf(q, "unknown answer id %q", id)
		}
	}
	set := toSet(ids)
	selected := make([]string, 0, len(set))
	for id := range set {
		selected = append(selected, id)
	}
	sort.Strings(selected)
	return s.Canonical(q, map[string]any{"selected": selected}), nil
}

func (s *multipleAnswers) DeserializeForEditing(q answers.Question, a answers.CanonicalAnswer) (answers.RawAnswer, error) {
	v, err := stored(s.Key, q, a, "selected")
	if err != nil {
		return nil, err
	}
	ids, ok := toIDSlice(v)
	if !ok {
		return nil, answers.Validationf(q, "stored selection is not a list of option ids")
	}
	return ids, nil
}

// --- multiple_dropdowns ---

// multipleDropdowns maps each blank to one of the options declared for that blank.
type multipleDropdowns struct{ answers.Base }

// NewMultipleDropdowns returns the serializer for questions with one dropdown per blank.
func NewMultipleDropdowns() answers.Serializer {
	return &multipleDropdowns{answers.Base{Key: MultipleDropdowns}}
}

func (s *multipleDropdowns) Serialize(q answers.Question, raw answers.RawAnswer) (answers.CanonicalAnswer, error) {
	sel, ok := toStringMap(raw, asID)
	if !ok {
		return answers.CanonicalAnswer{}, answers.Validationf(q, "answer must map blanks to option ids")
	}
	byBlank := map[string]map[string]struct{}{}
	for _, o := range q.Options {
		if byBlank[o.BlankID] == nil {
			byBlank[o.BlankID] = map[string]struct{}{}
		}
		byBlank[o.BlankID][o.ID] = struct{}{}
	}
	for blank, id := range sel {
		opts, ok := byBlank[blank]
		if !ok || blank == "" {
			return answers.CanonicalAnswer{}, answers.Validationf(q, "unknown blank %q", blank).WithField(blank)
		}
		if _, ok := opts[id]; !ok {
			return answers.CanonicalAnswer{}, answers.Validationf(q, "unknown answer id %q for blank %q", id, blank).WithField(blank)
		}
	}
	return s.Canonical(q, map[string]any{"selections": sel}), nil
}

func (s *multipleDropdowns) DeserializeForEditing(q answers.Question, a answers.CanonicalAnswer) (answers.RawAnswer, error) {
	v, err := stored(s.Key, q, a, "selections")
	if err != nil {
		return nil, err
	}
	sel, ok := toStringMap(v, asID)
	if !ok {
		return nil, answers.Validationf(q, "stored selections are not a blank to option mapping")
	}
	return sel, nil
}
