package routes

import (
	"io"
	"net/http"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/form"
	"github.com/debemdeboas/folio/internal/render"
	"github.com/debemdeboas/folio/internal/util"
)

const errPreviewKind = "Preview is only available for posts"

type previewResponse struct {
	HTML     string `json:"html"`
	CSS      string `json:"css"`
	Source   string `json:"source,omitempty"`
	ReadTime int    `json:"readTime"`
}

// servePreview renders the current draft of a post session. ?theme= picks the
// syntax theme.
func (s *Server) servePreview(w http.ResponseWriter, r *http.Request) {
	_, e, err := s.Editor.Session(r)
	if err != nil {
		writeError(w, http.StatusNotFound, config.ErrSessionNotFound)
		return
	}

	draft, ok := e.View().Draft.(form.Post)
	if !ok {
		writeError(w, http.StatusBadRequest, errPreviewKind)
		return
	}

	theme := r.URL.Query().Get("theme")
	if theme == "" {
		theme = s.SyntaxTheme
	}
	if !render.IsSyntaxTheme(theme) {
		writeError(w, http.StatusBadRequest, config.ErrUnknownTheme)
		return
	}

	source, err := render.HighlightSource(draft.Content, theme)
	if err != nil {
		routesLogger.Warn().Err(err).Msg("Failed to highlight draft source")
		source = ""
	}

	writeJSON(w, http.StatusOK, previewResponse{
		HTML:     string(render.MarkdownCached([]byte(draft.Content), theme)),
		CSS:      string(render.SyntaxCSS(theme)),
		Source:   source,
		ReadTime: util.ReadTime(draft.Content),
	})
}

type themesResponse struct {
	Themes  []string `json:"themes"`
	Default string   `json:"default"`
}

// serveSyntaxThemes lists the themes a preview accepts.
func (s *Server) serveSyntaxThemes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themesResponse{Themes: render.SyntaxThemes(), Default: s.SyntaxTheme})
}

// serveResume answers with the resume as JSON, or as plain text for
// ?format=text.
func (s *Server) serveResume(w http.ResponseWriter, r *http.Request) {
	resume := s.Resume.Load()

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, resume)
	case "text":
		w.Header().Set(config.HCType, config.CTypeText)
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, render.ResumeText(resume)); err != nil {
			routesLogger.Error().Err(err).Msg("Failed to write resume")
		}
	default:
		writeError(w, http.StatusBadRequest, config.ErrUnknownFormat)
	}
}
