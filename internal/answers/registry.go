package answers

import (
	"reflect"
	"sort"
	"sync"
	"sync/atomic"
)

// Registry maps type keys to serializers.
//
// Register during startup, then share the registry read-only. Resolve takes no
// lock: every Register publishes a fresh copy of the map, so a concurrent
// Resolve sees either the old or the new set of registrations.
type Registry struct {
	mu      sync.Mutex // serializes writers
	byType  atomic.Pointer[map[string]Serializer]
	unknown Serializer
}

// NewRegistry returns a registry with no concrete serializers.
func NewRegistry() *Registry {
	r := &Registry{unknown: unknownSerializer{}}
	empty := map[string]Serializer{}
	r.byType.Store(&empty)
	return r
}

// Register adds s under its type key. Registering the same instance twice is a
// no-op; a different instance under a claimed key is a duplicate registration.
// Serializers are pointers or comparable values, so identity can be checked.
func (r *Registry) Register(s Serializer) error {
	if isNil(s) {
		return &Error{Kind: KindUnsupportedOperation, Message: "cannot register a nil serializer"}
	}
	if v := reflect.ValueOf(s); v.Kind() != reflect.Pointer && !v.Comparable() {
		return &Error{Kind: KindUnsupportedOperation, Message: "serializer " + v.Type().String() + " is neither a pointer nor comparable"}
	}
	key := NormalizeType(s.TypeKey())
	if key == "" {
		return &Error{Kind: KindUnsupportedOperation, Message: "serializer has an empty type key"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur := *r.byType.Load()
	if existing, ok := cur[key]; ok {
		if sameInstance(existing, s) {
			return nil
		}
		return DuplicateRegistration(key)
	}
	next := make(map[string]Serializer, len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	next[key] = s
	r.byType.Store(&next)
	return nil
}

// MustRegister registers every serializer and panics on the first error.
// Meant for process initialization, where a conflict must stop startup.
func (r *Registry) MustRegister(ss ...Serializer) {
	for _, s := range ss {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
}

// Resolve returns the serializer for q.Type, or the Unknown serializer.
func (r *Registry) Resolve(q Question) Serializer {
	if s, ok := (*r.byType.Load())[NormalizeType(q.Type)]; ok {
		return s
	}
	return r.unknown
}

// Unknown returns the fallback serializer.
func (r *Registry) Unknown() Serializer { return r.unknown }

// Keys returns the registered type keys in sorted order.
func (r *Registry) Keys() []string {
	m := *r.byType.Load()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sameInstance reports whether a and b are the same serializer. Pointers are
// compared by address; comparable values by equality.
func sameInstance(a, b Serializer) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Kind() == reflect.Pointer {
		return va.Pointer() == vb.Pointer()
	}
	return va.Comparable() && va.Equal(vb)
}

func isNil(s Serializer) bool {
	if s == nil {
		return true
	}
	switch v := reflect.ValueOf(s); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
