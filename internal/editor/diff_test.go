package editor

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/debemdeboas/folio/internal/model"
)

func TestDiff(t *testing.T) {
	before := model.Project{
		ID:           "p1",
		Title:        "Old",
		Description:  "same",
		Technologies: []string{"Go"},
		LiveURL:      "https://live.example.com",
		Status:       model.StatusPlanned,
	}

	t.Run("Only changed fields", func(t *testing.T) {
		after := before.Clone()
		after.Title = "New"
		after.Technologies = []string{"Go", "SQL"}

		patch, err := Diff(before, after)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		want := map[string]json.RawMessage{
			"title":        json.RawMessage(`"New"`),
			"technologies": json.RawMessage(`["Go","SQL"]`),
		}
		if diff := cmp.Diff(want, patch); diff != "" {
			t.Errorf("Patch mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Dropped optional field becomes null", func(t *testing.T) {
		after := before.Clone()
		after.LiveURL = ""

		patch, err := Diff(before, after)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if string(patch["liveUrl"]) != "null" {
			t.Errorf("Expected liveUrl null, got %s", patch["liveUrl"])
		}
		if len(patch) != 1 {
			t.Errorf("Expected one changed field, got %v", patch)
		}
	})

	t.Run("No changes", func(t *testing.T) {
		patch, err := Diff(before, before.Clone())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(patch) != 0 {
			t.Errorf("Expected empty patch, got %v", patch)
		}
	})

	t.Run("Unencodable value", func(t *testing.T) {
		if _, err := Diff(before, make(chan int)); err == nil {
			t.Error("Expected error for unencodable value")
		}
	})
}
