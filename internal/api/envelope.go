package api

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errEmptyBody = errors.New("empty response body")

// The backend answers lists as {"data": [...]} and single entities as either
// {"data": {...}} or the bare entity. These helpers are the only place that
// knows.

func unwrap(data []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return trimmed
	}
	if inner, ok := envelope["data"]; ok {
		return bytes.TrimSpace(inner)
	}
	return trimmed
}

func decodeList[T any](data []byte) ([]T, error) {
	inner := unwrap(data)
	if len(inner) == 0 || bytes.Equal(inner, []byte("null")) {
		return []T{}, nil
	}

	items := []T{}
	if err := json.Unmarshal(inner, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func decodeEntity[T any](data []byte) (T, error) {
	var v T
	inner := unwrap(data)
	if len(inner) == 0 || bytes.Equal(inner, []byte("null")) {
		return v, errEmptyBody
	}
	err := json.Unmarshal(inner, &v)
	return v, err
}

// entityID digs the id out of a mutation answer, if there is one.
func entityID(data []byte) string {
	var v struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(unwrap(data), &v); err != nil || len(v.ID) == 0 || string(v.ID) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(v.ID, &s); err == nil {
		return s
	}
	return string(v.ID)
}

// errorMessage picks a human readable reason out of an error answer.
func errorMessage(data []byte) string {
	var v struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return ""
	}
	if v.Message != "" {
		return v.Message
	}
	return v.Error
}
