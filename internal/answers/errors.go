package answers

import "fmt"

// Kind classifies every error the serializers and the registry return.
type Kind string

const (
	// KindValidation: the raw answer does not fit the question type.
	// Recoverable; shown to the submitter.
	KindValidation Kind = "validation"
	// KindDuplicateRegistration: two serializers claim one type key.
	// Fatal during startup.
	KindDuplicateRegistration Kind = "duplicate_registration"
	// KindUnsupportedOperation: a serializer was asked for something it does not
	// implement. Indicates a programming error.
	KindUnsupportedOperation Kind = "unsupported_operation"
)

// Error is the only error type returned by this package and its serializers.
type Error struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	QuestionID string `json:"question_id,omitempty"`
	Field      string `json:"field,omitempty"`
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrValidation            = &Error{Kind: KindValidation}
	ErrDuplicateRegistration = &Error{Kind: KindDuplicateRegistration}
	ErrUnsupportedOperation  = &Error{Kind: KindUnsupportedOperation}
)

func (e *Error) Error() string {
	if e.QuestionID != "" {
		return fmt.Sprintf("%s: question %s: %s", e.Kind, e.QuestionID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Validationf returns a validation error for question q.
func Validationf(q Question, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, QuestionID: q.ID, Message: fmt.Sprintf(format, args...)}
}

// WithField returns a copy of e tagged with the offending field.
func (e *Error) WithField(field string) *Error {
	c := *e
	c.Field = field
	return &c
}

// DuplicateRegistration reports a second serializer claiming key.
func DuplicateRegistration(key string) *Error {
	return &Error{Kind: KindDuplicateRegistration, Message: fmt.Sprintf("type key %q is already registered", key)}
}

// Unsupported reports that serializer key does not implement op.
func Unsupported(key, op string) *Error {
	return &Error{Kind: KindUnsupportedOperation, Message: fmt.Sprintf("serializer %q does not implement %s", key, op)}
}
