package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/filter"
	"github.com/debemdeboas/folio/internal/form"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/repository"
	"github.com/debemdeboas/folio/internal/validation"
)

var messageStatuses = []string{model.MessageStatusRead, model.MessageStatusUnread}

type contactResponse struct {
	ID     string            `json:"id,omitempty"`
	Errors validation.Result `json:"errors,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// serveContact accepts a public contact form submission into the inbox.
func (s *Server) serveContact(w http.ResponseWriter, r *http.Request) {
	var c form.Contact
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, config.ErrInvalidBody)
		return
	}
	if res := form.ValidateContact(c); !res.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, contactResponse{Errors: res, Error: config.ErrValidationFailed})
		return
	}

	msg, err := s.Messages.Add(c.ToModel())
	if err != nil {
		routesLogger.Error().Err(err).Msg("Failed to store contact message")
		writeError(w, http.StatusInternalServerError, config.ErrStoreMessage)
		return
	}
	s.notify(r.Context(), config.TagMessages)
	writeJSON(w, http.StatusCreated, contactResponse{ID: msg.ID})
}

func (s *Server) serveMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.Messages.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, config.ErrLoadMessages)
		return
	}

	c := filter.FromQuery(r.URL.Query())
	writeJSON(w, http.StatusOK, newListResponse(messages, c, messageStatuses))
}

func (s *Server) serveMarkMessageRead(w http.ResponseWriter, r *http.Request) {
	msg, err := s.Messages.MarkRead(r.PathValue("id"))
	if err != nil {
		writeMessageError(w, err)
		return
	}
	s.notify(r.Context(), config.TagMessages)
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) serveDeleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := s.Messages.Delete(r.PathValue("id")); err != nil {
		writeMessageError(w, err)
		return
	}
	s.notify(r.Context(), config.TagMessages)
	w.WriteHeader(http.StatusNoContent)
}

func writeMessageError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrMessageNotFound) {
		writeError(w, http.StatusNotFound, config.ErrMessageNotFound)
		return
	}
	routesLogger.Error().Err(err).Msg("Failed to update messages")
	writeError(w, http.StatusInternalServerError, config.ErrStoreMessage)
}

// notify tells event stream subscribers that tag changed.
func (s *Server) notify(ctx context.Context, tag string) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Invalidate(ctx, tag); err != nil {
		routesLogger.Warn().Err(err).Str("tag", tag).Msg("Failed to notify subscribers")
	}
}
