// Package editor owns edit sessions: a copy-on-write draft store, the session
// state machine around it and the HTTP surface that drives both.
package editor

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/debemdeboas/folio/internal/validation"
)

// FieldSetter applies value to one field of draft. value is either the Go
// value of the field or its JSON encoding as a json.RawMessage.
type FieldSetter[T any] func(draft *T, value any) error

// List describes one repeatable section of a draft.
type List[T any] struct {
	Len    func(draft *T) int
	Set    func(draft *T, index int, value any) error
	Append func(draft *T, template any, key string) error
	Remove func(draft *T, index int)
	// Key is nil for lists of plain values, which carry no identity.
	Key func(draft *T, index int) string
}

func (l List[T]) Keyed() bool {
	return l.Key != nil
}

// Schema is everything the store needs to know about a draft type.
type Schema[T any] struct {
	Kind     string
	Empty    func() T
	Clone    func(T) T
	Validate func(T) validation.Result
	Fields   map[string]FieldSetter[T]
	Lists    map[string]List[T]
}

// Set builds a FieldSetter for a field of type V.
func Set[T, V any](apply func(draft *T, v V)) FieldSetter[T] {
	return func(draft *T, value any) error {
		v, err := decodeValue[V](value)
		if err != nil {
			return err
		}
		apply(draft, v)
		return nil
	}
}

// ListOf builds a List over the slice returned by field. key returns a pointer
// to an element's identity, or is nil for lists of plain values.
func ListOf[T, E any](field func(draft *T) *[]E, key func(e *E) *string) List[T] {
	l := List[T]{
		Len: func(draft *T) int {
			return len(*field(draft))
		},
		Set: func(draft *T, index int, value any) error {
			items := field(draft)
			e, err := decodeValue[E](value)
			if err != nil {
				return err
			}
			if key != nil {
				*key(&e) = *key(&(*items)[index])
			}
			(*items)[index] = e
			return nil
		},
		Append: func(draft *T, template any, k string) error {
			var e E
			if template != nil {
				var err error
				if e, err = decodeValue[E](template); err != nil {
					return err
				}
			}
			if key != nil {
				*key(&e) = k
			}
			items := field(draft)
			*items = append(*items, e)
			return nil
		},
		Remove: func(draft *T, index int) {
			items := field(draft)
			*items = slices.Delete(*items, index, index+1)
		},
	}
	if key != nil {
		l.Key = func(draft *T, index int) string {
			return *key(&(*field(draft))[index])
		}
	}
	return l
}

func decodeValue[V any](value any) (V, error) {
	if v, ok := value.(V); ok {
		return v, nil
	}

	var v V
	raw, ok := value.(json.RawMessage)
	if !ok {
		return v, fmt.Errorf("%w: expected %T, got %T", ErrInvalidValue, v, value)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return v, nil
}

func newEntryKey() string {
	return uuid.NewString()
}
