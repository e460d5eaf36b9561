package editor

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/debemdeboas/folio/internal/form"
)

type recordingSubmit struct {
	calls atomic.Int32
	last  form.Project
	err   error
}

func (r *recordingSubmit) submit(_ context.Context, d form.Project) (form.Project, error) {
	r.calls.Add(1)
	r.last = d
	if r.err != nil {
		return form.Project{}, r.err
	}
	d.Title = d.Title + " (saved)"
	return d, nil
}

func TestSessionStates(t *testing.T) {
	t.Run("Starts viewing", func(t *testing.T) {
		s := NewSession(ProjectSchema, nil, (&recordingSubmit{}).submit)
		if s.State() != Viewing {
			t.Errorf("Expected viewing, got %s", s.State())
		}
		if err := s.UpdateField("title", "x"); !errors.Is(err, ErrNotEditing) {
			t.Errorf("Expected ErrNotEditing before Begin, got %v", err)
		}
		if _, err := s.Submit(context.Background()); !errors.Is(err, ErrNotEditing) {
			t.Errorf("Expected ErrNotEditing on submit before Begin, got %v", err)
		}
	})

	t.Run("Begin is idempotent while editing", func(t *testing.T) {
		s := NewSession(ProjectSchema, nil, (&recordingSubmit{}).submit)
		if err := s.Begin(); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if err := s.UpdateField("title", "Kept"); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if err := s.Begin(); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got := s.Draft().Title; got != "Kept" {
			t.Errorf("Expected draft kept across Begin, got %q", got)
		}
	})

	t.Run("Does not alias source", func(t *testing.T) {
		src := sampleProject()
		s := NewSession(ProjectSchema, &src, (&recordingSubmit{}).submit)
		_ = s.Begin()
		_ = s.UpdateNestedField("images", 0, "https://img/x")
		if src.Images[0] != "https://img/1" {
			t.Errorf("Expected source untouched, got %v", src.Images)
		}
	})
}

func TestSessionSubmit(t *testing.T) {
	t.Run("Invalid draft makes no call", func(t *testing.T) {
		rec := &recordingSubmit{}
		s := NewSession(ProjectSchema, nil, rec.submit)
		_ = s.Begin()

		res, err := s.Submit(context.Background())
		if !errors.Is(err, ErrInvalidDraft) {
			t.Fatalf("Expected ErrInvalidDraft, got %v", err)
		}
		if !res.Has("githubUrl") {
			t.Errorf("Expected githubUrl in result, got %v", res)
		}
		if rec.calls.Load() != 0 {
			t.Errorf("Expected no submit call, got %d", rec.calls.Load())
		}
		if s.State() != Editing {
			t.Errorf("Expected editing, got %s", s.State())
		}
	})

	t.Run("Missing githubUrl is blocked", func(t *testing.T) {
		rec := &recordingSubmit{}
		src := sampleProject()
		src.GithubURL = ""
		s := NewSession(ProjectSchema, &src, rec.submit)
		_ = s.Begin()

		res, err := s.Submit(context.Background())
		if !errors.Is(err, ErrInvalidDraft) || !res.Has("githubUrl") {
			t.Errorf("Expected githubUrl error, got %v (err %v)", res, err)
		}
		if rec.calls.Load() != 0 {
			t.Errorf("Expected no submit call, got %d", rec.calls.Load())
		}
	})

	t.Run("Success reseeds from saved value", func(t *testing.T) {
		rec := &recordingSubmit{}
		s := NewSession(ProjectSchema, nil, rec.submit)
		_ = s.Begin()
		for name, value := range map[string]any{
			"title":           "Portfolio Site",
			"description":     "desc",
			"longDescription": "long desc",
			"githubUrl":       "https://example.com",
			"technologiesStr": "TS, React",
			"images":          json.RawMessage(`["https://img/1","",""]`),
		} {
			if err := s.UpdateField(name, value); err != nil {
				t.Fatalf("Expected no error setting %s, got %v", name, err)
			}
		}

		res, err := s.Submit(context.Background())
		if err != nil {
			t.Fatalf("Expected no error, got %v (result %v)", err, res)
		}
		if rec.calls.Load() != 1 {
			t.Errorf("Expected exactly one submit call, got %d", rec.calls.Load())
		}
		if rec.last.Title != "Portfolio Site" {
			t.Errorf("Expected submitted title, got %q", rec.last.Title)
		}
		if s.State() != Viewing {
			t.Errorf("Expected viewing, got %s", s.State())
		}
		if got := s.Draft().Title; got != "Portfolio Site (saved)" {
			t.Errorf("Expected draft reseeded from saved value, got %q", got)
		}

		// A new edit starts from the saved value.
		_ = s.Begin()
		if got := s.Draft().Title; got != "Portfolio Site (saved)" {
			t.Errorf("Expected new edit from saved value, got %q", got)
		}
	})

	t.Run("Failure keeps draft", func(t *testing.T) {
		rec := &recordingSubmit{err: errors.New("backend down")}
		src := sampleProject()
		s := NewSession(ProjectSchema, &src, rec.submit)
		_ = s.Begin()
		_ = s.UpdateField("title", "Edited")

		if _, err := s.Submit(context.Background()); err == nil || err.Error() != "backend down" {
			t.Fatalf("Expected backend error, got %v", err)
		}
		if s.State() != Editing {
			t.Errorf("Expected editing after failure, got %s", s.State())
		}
		if got := s.Draft().Title; got != "Edited" {
			t.Errorf("Expected draft preserved, got %q", got)
		}

		v := s.View()
		if v.Error != "backend down" {
			t.Errorf("Expected error in view, got %q", v.Error)
		}

		// Retry succeeds once the backend recovers.
		rec.err = nil
		if _, err := s.Submit(context.Background()); err != nil {
			t.Errorf("Expected retry to succeed, got %v", err)
		}
		if s.View().Error != "" {
			t.Errorf("Expected error cleared, got %q", s.View().Error)
		}
	})

	t.Run("Second submit while in flight", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		var calls atomic.Int32

		src := sampleProject()
		s := NewSession(ProjectSchema, &src, func(ctx context.Context, d form.Project) (form.Project, error) {
			calls.Add(1)
			close(started)
			<-release
			return d, nil
		})
		_ = s.Begin()

		done := make(chan error)
		go func() {
			_, err := s.Submit(context.Background())
			done <- err
		}()
		<-started

		if s.State() != Submitting {
			t.Errorf("Expected submitting, got %s", s.State())
		}
		if _, err := s.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
			t.Errorf("Expected ErrSubmitInFlight, got %v", err)
		}
		if err := s.UpdateField("title", "late"); !errors.Is(err, ErrSubmitInFlight) {
			t.Errorf("Expected edits rejected while submitting, got %v", err)
		}
		if err := s.Cancel(); !errors.Is(err, ErrSubmitInFlight) {
			t.Errorf("Expected cancel rejected while submitting, got %v", err)
		}

		close(release)
		if err := <-done; err != nil {
			t.Errorf("Expected first submit to succeed, got %v", err)
		}
		if calls.Load() != 1 {
			t.Errorf("Expected one call, got %d", calls.Load())
		}
	})
}

func TestSessionCancel(t *testing.T) {
	rec := &recordingSubmit{}
	src := sampleProject()
	s := NewSession(ProjectSchema, &src, rec.submit)

	if err := s.Cancel(); !errors.Is(err, ErrNotEditing) {
		t.Errorf("Expected ErrNotEditing when not editing, got %v", err)
	}

	_ = s.Begin()
	_ = s.UpdateField("title", "Discard me")

	if err := s.Cancel(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if s.State() != Cancelled {
		t.Errorf("Expected cancelled, got %s", s.State())
	}
	if diff := cmp.Diff(src, s.Draft()); diff != "" {
		t.Errorf("Expected draft reset to source (-want +got):\n%s", diff)
	}
	if rec.calls.Load() != 0 {
		t.Errorf("Expected no backend call, got %d", rec.calls.Load())
	}
}

func TestSessionView(t *testing.T) {
	s := NewSession(ProjectSchema, nil, (&recordingSubmit{}).submit)

	v := s.View()
	if v.Kind != KindProject || v.State != Viewing {
		t.Errorf("Unexpected view %+v", v)
	}
	if v.Errors != nil {
		t.Errorf("Expected no errors while viewing, got %v", v.Errors)
	}

	_ = s.Begin()
	v = s.View()
	if !v.Errors.Has("title") {
		t.Errorf("Expected title error while editing, got %v", v.Errors)
	}

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var decoded struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if decoded.State != "editing" {
		t.Errorf("Expected state 'editing', got %q", decoded.State)
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		Viewing:    "viewing",
		Editing:    "editing",
		Submitting: "submitting",
		Cancelled:  "cancelled",
		State(42):  "state(42)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}
