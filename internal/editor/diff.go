package editor

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Diff returns the top-level JSON fields of after that differ from before.
// Fields present in before but dropped from after are sent as null.
func Diff(before, after any) (map[string]json.RawMessage, error) {
	b, err := fields(before)
	if err != nil {
		return nil, fmt.Errorf("failed to encode original: %w", err)
	}
	a, err := fields(after)
	if err != nil {
		return nil, fmt.Errorf("failed to encode update: %w", err)
	}

	patch := map[string]json.RawMessage{}
	for k, v := range a {
		if old, ok := b[k]; !ok || !bytes.Equal(old, v) {
			patch[k] = v
		}
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			patch[k] = json.RawMessage("null")
		}
	}
	return patch, nil
}

func fields(v any) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
