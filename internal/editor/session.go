package editor

import (
	"context"
	"fmt"
	"sync"

	"github.com/debemdeboas/folio/internal/validation"
)

type State int

const (
	Viewing State = iota
	Editing
	Submitting
	Cancelled
)

var stateNames = map[State]string{
	Viewing:    "viewing",
	Editing:    "editing",
	Submitting: "submitting",
	Cancelled:  "cancelled",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SubmitFunc sends a validated draft upstream and returns the draft seeded
// from what the backend accepted.
type SubmitFunc[T any] func(ctx context.Context, draft T) (T, error)

// View is a point-in-time picture of a session, safe to encode.
type View struct {
	ID     SessionID         `json:"id,omitempty"`
	Kind   string            `json:"kind"`
	State  State             `json:"state"`
	Draft  any               `json:"draft"`
	Errors validation.Result `json:"errors,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// Editor is the type-erased face of a Session, so sessions of every draft
// type can share one repository and one HTTP handler.
type Editor interface {
	Kind() string
	State() State
	Begin() error
	UpdateField(name string, value any) error
	UpdateNestedField(container string, index int, value any) error
	AppendEntry(container string, template any) (string, error)
	RemoveEntry(container string, index int) error
	EntryIndex(container, key string) (int, error)
	Validate() validation.Result
	Submit(ctx context.Context) (validation.Result, error)
	Cancel() error
	View() View
}

// Session drives one edit of one entity:
//
//	Viewing -> Editing -> Submitting -> Viewing (success)
//	                                 -> Editing (failure, error kept)
//	Editing -> Cancelled
//
// The lock is released while the submission is in flight; the Submitting
// state is what rejects a second submit and any edit in the meantime.
type Session[T any] struct {
	mu sync.Mutex

	schema *Schema[T]
	store  *Store[T]
	source *T
	submit SubmitFunc[T]

	state   State
	lastErr error
}

func NewSession[T any](schema *Schema[T], source *T, submit SubmitFunc[T]) *Session[T] {
	s := &Session[T]{
		schema: schema,
		store:  NewStore(schema),
		submit: submit,
		state:  Viewing,
	}
	if source != nil {
		src := schema.Clone(*source)
		s.source = &src
	}
	s.store.Initialize(s.source)
	return s
}

func (s *Session[T]) Kind() string {
	return s.schema.Kind
}

func (s *Session[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Begin enters Editing, reseeding the draft from the source. Calling it while
// already editing keeps the current draft.
func (s *Session[T]) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Editing:
		return nil
	case Submitting:
		return ErrSubmitInFlight
	}

	s.store.Initialize(s.source)
	s.state = Editing
	s.lastErr = nil
	return nil
}

// Draft returns an independent copy of the current draft.
func (s *Session[T]) Draft() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Draft()
}

func (s *Session[T]) UpdateField(name string, value any) error {
	return s.edit(func() error {
		_, err := s.store.UpdateField(name, value)
		return err
	})
}

func (s *Session[T]) UpdateNestedField(container string, index int, value any) error {
	return s.edit(func() error {
		_, err := s.store.UpdateNestedField(container, index, value)
		return err
	})
}

func (s *Session[T]) AppendEntry(container string, template any) (string, error) {
	var key string
	err := s.edit(func() error {
		var err error
		_, key, err = s.store.AppendEntry(container, template)
		return err
	})
	return key, err
}

func (s *Session[T]) RemoveEntry(container string, index int) error {
	return s.edit(func() error {
		_, err := s.store.RemoveEntry(container, index)
		return err
	})
}

func (s *Session[T]) EntryIndex(container, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.EntryIndex(container, key)
}

func (s *Session[T]) Validate() validation.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Validate()
}

// Submit validates the draft and, only when it is valid, hands it to the
// submit function. A rejected draft returns its Result with ErrInvalidDraft
// and makes no call. On failure the draft is kept and the session goes back
// to Editing; on success the store is reseeded from the accepted value.
func (s *Session[T]) Submit(ctx context.Context) (validation.Result, error) {
	s.mu.Lock()
	if err := s.checkEditing(); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	res := s.store.Validate()
	if !res.Valid() {
		s.mu.Unlock()
		return res, ErrInvalidDraft
	}

	draft := s.store.Draft()
	s.state = Submitting
	s.lastErr = nil
	s.mu.Unlock()

	saved, err := s.submit(ctx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = Editing
		s.lastErr = err
		return nil, err
	}

	src := s.schema.Clone(saved)
	s.source = &src
	s.store.Initialize(s.source)
	s.state = Viewing
	return validation.Result{}, nil
}

// Cancel discards the draft without any backend call.
func (s *Session[T]) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEditing(); err != nil {
		return err
	}

	s.store.Reset(s.source)
	s.state = Cancelled
	s.lastErr = nil
	return nil
}

func (s *Session[T]) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Kind:  s.schema.Kind,
		State: s.state,
		Draft: s.store.Draft(),
	}
	if s.state == Editing {
		v.Errors = s.store.Validate()
	}
	if s.lastErr != nil {
		v.Error = s.lastErr.Error()
	}
	return v
}

func (s *Session[T]) edit(change func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEditing(); err != nil {
		return err
	}
	return change()
}

func (s *Session[T]) checkEditing() error {
	switch s.state {
	case Editing:
		return nil
	case Submitting:
		return ErrSubmitInFlight
	default:
		return ErrNotEditing
	}
}
