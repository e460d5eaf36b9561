package editor

import "errors"

var (
	ErrNotEditing      = errors.New("session is not in editing state")
	ErrSubmitInFlight  = errors.New("submission already in progress")
	ErrUnknownField    = errors.New("unknown field")
	ErrUnknownList     = errors.New("unknown list")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidValue    = errors.New("invalid value")
	ErrInvalidDraft    = errors.New("draft has validation errors")
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownKind     = errors.New("unknown session kind")
	ErrSourceNotFound  = errors.New("entity to edit not found")
)
