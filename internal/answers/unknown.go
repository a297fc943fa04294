package answers

// UnknownKey identifies answers produced by the fallback serializer.
const UnknownKey = "unknown"

// unknownSerializer accepts anything for question types nobody claimed.
type unknownSerializer struct{}

func (unknownSerializer) TypeKey() string { return UnknownKey }

func (unknownSerializer) Serialize(q Question, raw RawAnswer) (CanonicalAnswer, error) {
	return CanonicalAnswer{
		Serializer:   UnknownKey,
		QuestionID:   q.ID,
		Value:        raw,
		Unrecognized: true,
	}, nil
}

func (unknownSerializer) DeserializeForEditing(_ Question, a CanonicalAnswer) (RawAnswer, error) {
	return a.Value, nil
}
