package editor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/folio/internal/config"
)

const maxBodyBytes = 1 << 20

var editorLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	editorLogger = l
}

// Opener starts a session for kind. An empty id means a create flow.
type Opener func(ctx context.Context, id string) (Editor, error)

type Handler struct {
	repo    Repository
	openers map[string]Opener
}

func NewHandler(repo Repository, openers map[string]Opener) *Handler {
	return &Handler{
		repo:    repo,
		openers: openers,
	}
}

// Register mounts the session endpoints on mux, each wrapped by mw.
func (h *Handler) Register(mux *http.ServeMux, mw func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("POST /admin/sessions/{kind}", mw(h.ServeOpen))
	mux.HandleFunc("GET /admin/sessions/{id}", mw(h.ServeView))
	mux.HandleFunc("PATCH /admin/sessions/{id}/fields/{field}", mw(h.ServeUpdateField))
	mux.HandleFunc("POST /admin/sessions/{id}/lists/{list}", mw(h.ServeAppendEntry))
	mux.HandleFunc("PUT /admin/sessions/{id}/lists/{list}/{index}", mw(h.ServeUpdateEntry))
	mux.HandleFunc("DELETE /admin/sessions/{id}/lists/{list}/{index}", mw(h.ServeRemoveEntry))
	mux.HandleFunc("POST /admin/sessions/{id}/submit", mw(h.ServeSubmit))
	mux.HandleFunc("POST /admin/sessions/{id}/cancel", mw(h.ServeCancel))
}

// Session returns the session addressed by the request's {id} path value.
func (h *Handler) Session(r *http.Request) (SessionID, Editor, error) {
	id := SessionID(r.PathValue("id"))
	e, err := h.repo.Get(id)
	return id, e, err
}

func (h *Handler) ServeOpen(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	open, ok := h.openers[kind]
	if !ok {
		writeError(w, http.StatusNotFound, ErrUnknownKind.Error())
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, config.ErrInvalidBody)
			return
		}
	}

	e, err := open(r.Context(), req.ID)
	if err != nil {
		if errors.Is(err, ErrSourceNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		editorLogger.Error().Err(err).Str("kind", kind).Str("source_id", req.ID).Msg("Failed to open edit session")
		writeError(w, http.StatusBadGateway, config.ErrBackendUnavailable)
		return
	}

	if err := e.Begin(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	id, err := h.repo.Create(e)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	editorLogger.Info().Str("session", string(id)).Str("kind", kind).Str("source_id", req.ID).Msg("Edit session opened")
	writeView(w, http.StatusCreated, id, e)
}

func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, e, err := h.Session(r)
	if err != nil {
		writeError(w, http.StatusNotFound, config.ErrSessionNotFound)
		return
	}
	writeView(w, http.StatusOK, id, e)
}

func (h *Handler) ServeUpdateField(w http.ResponseWriter, r *http.Request) {
	id, e, err := h.Session(r)
	if err != nil {
		writeError(w, http.StatusNotFound, config.ErrSessionNotFound)
		return
	}

	value, ok := readValue(w, r)
	if !ok {
		return
	}

	if err := e.UpdateField(r.PathValue("field"), value); err != nil {
		writeEditError(w, err)
		return
	}
	writeView(w, http.StatusOK, id, e)
}

func (h *Handler) ServeAppendEntry(w http.ResponseWriter, r *http.Request) {
	id, e, err := h.Session(r)
	if err != nil {
		writeError(w, http.StatusNotFound, config.ErrSessionNotFound)
		return
	}

	var template any
	if r.ContentLength != 0 {
		value, ok := readValue(w, r)
		if !ok {
			return
		}
		template = value
	}

	key, err := e.AppendEntry(r.PathValue("list"), template)
	if err != nil {
		writeEditError(w, err)
		return
	}

	v := e.View()
	v.ID = id
	writeJSON(w, http.StatusCreated, struct {
		Key     string `json:"key,omitempty"`
		Session View   `json:"session"`
	}{Key: key, Session: v})
}

func (h *Handler) ServeUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, e, err := h.Session(r)
	if err != nil {
		writeError(w, http.StatusNotFound, config.ErrSessionNotFound)
		return
	}

	list := r.PathValue("list")
	index, err := entryIndex(e, list, r.PathValue("index"))
	if err != nil {
		writeEditError(w, err)
		return
	}

	value, ok := readValue(w, r)
	if !ok {
		return
	}

	if err := e.UpdateNestedField(list, index, value); err != nil {
		writeEditError(w, err)
		return
	}
	writeView(w, http.StatusOK, id, e)
}

func (h *Handler) ServeRemoveEntry(w http.ResponseWriter, r *http.Request) {
	id, e, err := h.Session(r)
	if err != nil {
		writeError(w, http.StatusNotFound, config.ErrSessionNotFound)
		return
	}

	list := r.PathValue("list")
	index, err := entryIndex(e, list, r.PathValue("index"))
	if err != nil {
		writeEditError(w, err)
		return
	}

	if err := e.RemoveEntry(list, index); err != nil {
		writeEditError(w, err)
		return
	}
	writeView(w, http.StatusOK, id, e)
}

// ServeSubmit runs the submission on a context detached from the request, so
// a client that goes away does not abort a write already sent upstream.
func (h *Handler) ServeSubmit(w http.ResponseWriter, r *http.Request) {
	id, e, err := h.Session(r)
	if err != nil {
		writeError(w, http.StatusNotFound, config.ErrSessionNotFound)
		return
	}

	res, err := e.Submit(context.WithoutCancel(r.Context()))
	switch {
	case err == nil:
		editorLogger.Info().Str("session", string(id)).Str("kind", e.Kind()).Msg("Edit session submitted")
		writeView(w, http.StatusOK, id, e)
		_ = h.repo.Delete(id)
	case errors.Is(err, ErrInvalidDraft):
		v := e.View()
		v.ID = id
		v.Errors = res
		v.Error = config.ErrValidationFailed
		writeJSON(w, http.StatusUnprocessableEntity, v)
	case errors.Is(err, ErrSubmitInFlight), errors.Is(err, ErrNotEditing):
		writeError(w, http.StatusConflict, err.Error())
	default:
		editorLogger.Error().Err(err).Str("session", string(id)).Str("kind", e.Kind()).Msg("Submission failed")
		writeView(w, http.StatusBadGateway, id, e)
	}
}

func (h *Handler) ServeCancel(w http.ResponseWriter, r *http.Request) {
	id, e, err := h.Session(r)
	if err != nil {
		writeError(w, http.StatusNotFound, config.ErrSessionNotFound)
		return
	}

	if err := e.Cancel(); err != nil {
		writeEditError(w, err)
		return
	}

	editorLogger.Info().Str("session", string(id)).Str("kind", e.Kind()).Msg("Edit session cancelled")
	writeView(w, http.StatusOK, id, e)
	_ = h.repo.Delete(id)
}

// entryIndex accepts either a position or an entry key.
func entryIndex(e Editor, list, raw string) (int, error) {
	if i, err := strconv.Atoi(raw); err == nil {
		return i, nil
	}
	return e.EntryIndex(list, raw)
}

func readValue(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil || !json.Valid(body) {
		writeError(w, http.StatusBadRequest, config.ErrInvalidBody)
		return nil, false
	}
	return json.RawMessage(body), true
}

func writeEditError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownField), errors.Is(err, ErrUnknownList), errors.Is(err, ErrInvalidValue):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrIndexOutOfRange):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotEditing), errors.Is(err, ErrSubmitInFlight):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeView(w http.ResponseWriter, status int, id SessionID, e Editor) {
	v := e.View()
	v.ID = id
	writeJSON(w, status, v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		editorLogger.Error().Err(err).Msg("Failed to write response")
	}
}
