package editor

import (
	"fmt"

	"github.com/debemdeboas/folio/internal/validation"
)

// Store holds the draft of one edit session. Every update clones the current
// draft and applies the change to the clone, so a draft handed out earlier is
// never touched again. Store is not safe for concurrent use; Session guards it.
type Store[T any] struct {
	schema *Schema[T]
	draft  T
}

func NewStore[T any](schema *Schema[T]) *Store[T] {
	return &Store[T]{schema: schema, draft: schema.Empty()}
}

// Initialize seeds the draft from source, or from the schema's empty value
// when source is nil. The source itself is never aliased.
func (s *Store[T]) Initialize(source *T) T {
	if source == nil {
		s.draft = s.schema.Empty()
	} else {
		s.draft = s.schema.Clone(*source)
	}
	return s.Draft()
}

// Reset discards the current draft and seeds it again from source.
func (s *Store[T]) Reset(source *T) T {
	return s.Initialize(source)
}

// Draft returns an independent copy of the current draft.
func (s *Store[T]) Draft() T {
	return s.schema.Clone(s.draft)
}

func (s *Store[T]) UpdateField(name string, value any) (T, error) {
	set, ok := s.schema.Fields[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	return s.apply(func(next *T) error {
		return set(next, value)
	})
}

// UpdateNestedField replaces the element at index in container. The element
// keeps its key whatever value carries.
func (s *Store[T]) UpdateNestedField(container string, index int, value any) (T, error) {
	list, err := s.list(container, index)
	if err != nil {
		var zero T
		return zero, err
	}

	return s.apply(func(next *T) error {
		return list.Set(next, index, value)
	})
}

// AppendEntry appends template to container under a fresh key and returns the
// new draft with that key. Lists of plain values return an empty key.
func (s *Store[T]) AppendEntry(container string, template any) (T, string, error) {
	list, ok := s.schema.Lists[container]
	if !ok {
		var zero T
		return zero, "", fmt.Errorf("%w: %s", ErrUnknownList, container)
	}

	var key string
	if list.Keyed() {
		key = newEntryKey()
	}

	draft, err := s.apply(func(next *T) error {
		return list.Append(next, template, key)
	})
	return draft, key, err
}

// RemoveEntry drops the element at index. Surviving entries keep their keys.
func (s *Store[T]) RemoveEntry(container string, index int) (T, error) {
	list, err := s.list(container, index)
	if err != nil {
		var zero T
		return zero, err
	}

	return s.apply(func(next *T) error {
		list.Remove(next, index)
		return nil
	})
}

// EntryIndex returns the position of the entry with key in container.
func (s *Store[T]) EntryIndex(container, key string) (int, error) {
	list, ok := s.schema.Lists[container]
	if !ok {
		return -1, fmt.Errorf("%w: %s", ErrUnknownList, container)
	}
	if !list.Keyed() {
		return -1, fmt.Errorf("%w: %s has no keys", ErrUnknownList, container)
	}

	for i := 0; i < list.Len(&s.draft); i++ {
		if list.Key(&s.draft, i) == key {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: no entry %s in %s", ErrIndexOutOfRange, key, container)
}

func (s *Store[T]) Validate() validation.Result {
	if s.schema.Validate == nil {
		return validation.Result{}
	}
	return s.schema.Validate(s.draft)
}

func (s *Store[T]) list(container string, index int) (List[T], error) {
	list, ok := s.schema.Lists[container]
	if !ok {
		return list, fmt.Errorf("%w: %s", ErrUnknownList, container)
	}
	if n := list.Len(&s.draft); index < 0 || index >= n {
		return list, fmt.Errorf("%w: %s[%d] (len %d)", ErrIndexOutOfRange, container, index, n)
	}
	return list, nil
}

func (s *Store[T]) apply(change func(next *T) error) (T, error) {
	next := s.schema.Clone(s.draft)
	if err := change(&next); err != nil {
		var zero T
		return zero, err
	}
	s.draft = s.schema.Clone(next)
	return s.Draft(), nil
}
