package answers

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
)

// echoSerializer is a minimal concrete serializer for registry tests.
type echoSerializer struct {
	Base
}

func newEcho(key string) *echoSerializer { return &echoSerializer{Base{Key: key}} }

func (e *echoSerializer) Serialize(q Question, raw RawAnswer) (CanonicalAnswer, error) {
	return e.Canonical(q, raw), nil
}

func (e *echoSerializer) DeserializeForEditing(_ Question, a CanonicalAnswer) (RawAnswer, error) {
	return a.Value, nil
}

// TestResolveRegistered verifies every registered serializer is returned for its own key.
func TestResolveRegistered(t *testing.T) {
	r := NewRegistry()
	mc, essay := newEcho("multiple_choice"), newEcho("essay")
	r.MustRegister(mc, essay)

	for _, s := range []Serializer{mc, essay} {
		got := r.Resolve(Question{Type: s.TypeKey()})
		if got != s {
			t.Fatalf("resolve %q: got %T %v, want same instance", s.TypeKey(), got, got)
		}
	}
}

// TestResolveStripsQuestionSuffix verifies "<type>_question" resolves like "<type>".
func TestResolveStripsQuestionSuffix(t *testing.T) {
	r := NewRegistry()
	mc := newEcho("multiple_choice")
	r.MustRegister(mc)

	if got := r.Resolve(Question{Type: "multiple_choice_question"}); got != mc {
		t.Fatalf("expected suffix to be stripped, got %T", got)
	}
	if got := r.Resolve(Question{Type: " multiple_choice "}); got != mc {
		t.Fatalf("expected surrounding space to be ignored, got %T", got)
	}
}

// TestResolveUnknownFallback verifies unclaimed types go to the Unknown serializer.
func TestResolveUnknownFallback(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(newEcho("multiple_choice"))

	q := Question{ID: "q1", Type: "uber_hax_question"}
	s := r.Resolve(q)
	if s != r.Unknown() {
		t.Fatalf("expected unknown serializer, got %T", s)
	}
	raw := map[string]any{"anything": []any{"goes", 1.0}}
	ca, err := s.Serialize(q, raw)
	if err != nil {
		t.Fatalf("unknown serialize: %v", err)
	}
	if !ca.Unrecognized {
		t.Fatalf("expected unrecognized answer")
	}
	if ca.Serializer != UnknownKey || ca.QuestionID != "q1" {
		t.Fatalf("unexpected tags: %+v", ca)
	}
	if !reflect.DeepEqual(ca.Value, raw) {
		t.Fatalf("expected opaque payload %v, got %v", raw, ca.Value)
	}
	back, err := s.DeserializeForEditing(q, ca)
	if err != nil {
		t.Fatalf("unknown deserialize: %v", err)
	}
	if !reflect.DeepEqual(back, raw) {
		t.Fatalf("expected %v back, got %v", raw, back)
	}
}

// TestResolveEmptyTypeIsUnknown verifies a descriptor without a type still resolves.
func TestResolveEmptyTypeIsUnknown(t *testing.T) {
	r := NewRegistry()
	if r.Resolve(Question{}) != r.Unknown() {
		t.Fatalf("expected unknown serializer for empty type")
	}
}

// TestRegisterDuplicate verifies a second instance under a claimed key is rejected.
func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	first := newEcho("multiple_choice")
	if err := r.Register(first); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := r.Register(newEcho("multiple_choice"))
	if !errors.Is(err, ErrDuplicateRegistration) {
		t.Fatalf("expected duplicate registration, got %v", err)
	}
	// suffix variants claim the same key
	err = r.Register(newEcho("multiple_choice_question"))
	if !errors.Is(err, ErrDuplicateRegistration) {
		t.Fatalf("expected duplicate registration for suffixed key, got %v", err)
	}
	if r.Resolve(Question{Type: "multiple_choice"}) != first {
		t.Fatalf("original registration must not be shadowed")
	}
}

// TestRegisterSameInstanceIdempotent verifies re-registering one instance is a no-op.
func TestRegisterSameInstanceIdempotent(t *testing.T) {
	r := NewRegistry()
	s := newEcho("essay")
	for i := 0; i < 3; i++ {
		if err := r.Register(s); err != nil {
			t.Fatalf("register #%d: %v", i, err)
		}
	}
	if got := r.Keys(); !reflect.DeepEqual(got, []string{"essay"}) {
		t.Fatalf("unexpected keys %v", got)
	}
}

// TestRegisterRejectsEmpty verifies nil serializers and empty keys are programming errors.
func TestRegisterRejectsEmpty(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(nil); !errors.Is(err, ErrUnsupportedOperation) {
		t.Fatalf("expected unsupported operation for nil, got %v", err)
	}
	if err := r.Register(newEcho("  ")); !errors.Is(err, ErrUnsupportedOperation) {
		t.Fatalf("expected unsupported operation for empty key, got %v", err)
	}
}

// TestRegisterTypedNil verifies a nil pointer wrapped in the interface is refused, not called.
func TestRegisterTypedNil(t *testing.T) {
	var p *echoSerializer
	if err := NewRegistry().Register(p); !errors.Is(err, ErrUnsupportedOperation) {
		t.Fatalf("expected unsupported operation for typed nil, got %v", err)
	}
}

// taggedSerializer holds a slice, so its values cannot be compared.
type taggedSerializer struct {
	Base
	tags []string
}

// TestRegisterValueSerializers verifies comparable values are idempotent and
// non-comparable values are refused.
func TestRegisterValueSerializers(t *testing.T) {
	r := NewRegistry()
	v := Base{Key: "hotspot"}
	for i := 0; i < 2; i++ {
		if err := r.Register(v); err != nil {
			t.Fatalf("register comparable value #%d: %v", i, err)
		}
	}
	tagged := taggedSerializer{Base: Base{Key: "drawing"}, tags: []string{"a"}}
	if err := r.Register(tagged); !errors.Is(err, ErrUnsupportedOperation) {
		t.Fatalf("expected unsupported operation for non-comparable value, got %v", err)
	}
	if got := r.Keys(); !reflect.DeepEqual(got, []string{"hotspot"}) {
		t.Fatalf("unexpected keys %v", got)
	}
}

// TestMustRegisterPanicsOnDuplicate verifies startup registration halts on conflict.
func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	r := NewRegistry()
	defer func() {
		rec := recover()
		err, ok := rec.(error)
		if !ok || !errors.Is(err, ErrDuplicateRegistration) {
			t.Fatalf("expected duplicate registration panic, got %v", rec)
		}
	}()
	r.MustRegister(newEcho("matching"), newEcho("matching"))
}

// TestKeysSorted verifies introspection lists every key once, sorted.
func TestKeysSorted(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(newEcho("numerical"), newEcho("essay"), newEcho("matching"))
	want := []string{"essay", "matching", "numerical"}
	if got := r.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("keys: got %v want %v", got, want)
	}
}

// TestBaseIsUnsupported verifies a serializer that only embeds Base is resolvable
// but reports its missing operations.
func TestBaseIsUnsupported(t *testing.T) {
	r := NewRegistry()
	type uberHax struct{ Base }
	s := &uberHax{Base{Key: "uber_hax"}}
	r.MustRegister(s)

	q := Question{Type: "uber_hax_question"}
	got := r.Resolve(q)
	if got != Serializer(s) {
		t.Fatalf("expected registered base serializer, got %T", got)
	}
	if _, err := got.Serialize(q, "x"); !errors.Is(err, ErrUnsupportedOperation) {
		t.Fatalf("expected unsupported serialize, got %v", err)
	}
	if _, err := got.DeserializeForEditing(q, CanonicalAnswer{}); !errors.Is(err, ErrUnsupportedOperation) {
		t.Fatalf("expected unsupported deserialize, got %v", err)
	}
}

// TestConcurrentResolveDuringRegister verifies readers always see a usable snapshot
// while late registrations are published.
func TestConcurrentResolveDuringRegister(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(newEcho("essay"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				if s := r.Resolve(Question{Type: "essay"}); s.TypeKey() != "essay" {
					t.Errorf("essay resolved to %q", s.TypeKey())
					return
				}
				if s := r.Resolve(Question{Type: "nobody"}); s == nil {
					t.Errorf("nil serializer")
					return
				}
			}
		}()
	}
	for i := 0; i < 50; i++ {
		if err := r.Register(newEcho(fmt.Sprintf("plugin_%d", i))); err != nil {
			t.Fatalf("late register: %v", err)
		}
	}
	wg.Wait()
	if n := len(r.Keys()); n != 51 {
		t.Fatalf("expected 51 keys, got %d", n)
	}
}

// TestHandles verifies the type-match predicate.
func TestHandles(t *testing.T) {
	s := newEcho("matching")
	if !Handles(s, Question{Type: "matching_question"}) {
		t.Fatalf("expected matching to handle matching_question")
	}
	if Handles(s, Question{Type: "essay"}) || Handles(nil, Question{Type: "matching"}) {
		t.Fatalf("unexpected match")
	}
}
