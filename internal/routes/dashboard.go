package routes

import (
	"net/http"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/filter"
	"github.com/debemdeboas/folio/internal/form"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/render"
	"github.com/debemdeboas/folio/internal/validation"
)

type dashboardResponse struct {
	Posts    map[string]int `json:"posts"`
	Projects map[string]int `json:"projects"`
	Messages map[string]int `json:"messages"`
}

// serveDashboard summarizes the content counts shown on the admin landing page.
func (s *Server) serveDashboard(w http.ResponseWriter, r *http.Request) {
	posts, err := s.API.ListPosts(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, config.ErrBackendUnavailable)
		return
	}
	projects, err := s.API.ListProjects(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, config.ErrBackendUnavailable)
		return
	}
	messages, err := s.Messages.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, config.ErrLoadMessages)
		return
	}

	featured := 0
	for _, p := range projects {
		if p.Featured {
			featured++
		}
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Posts: map[string]int{
			filter.StatusAll:          len(posts),
			model.PostStatusPublished: filter.Count(posts, model.PostStatusPublished),
			model.PostStatusDraft:     filter.Count(posts, model.PostStatusDraft),
		},
		Projects: map[string]int{
			filter.StatusAll: len(projects),
			"featured":       featured,
		},
		Messages: map[string]int{
			filter.StatusAll:          len(messages),
			model.MessageStatusUnread: filter.Count(messages, model.MessageStatusUnread),
		},
	})
}

type adminResumeResponse struct {
	Resume model.Resume      `json:"resume"`
	Text   string            `json:"text"`
	Errors validation.Result `json:"errors,omitempty"`
}

// serveAdminResume returns the stored resume with its plain text rendering
// and whatever still keeps it from passing validation.
func (s *Server) serveAdminResume(w http.ResponseWriter, r *http.Request) {
	resume := s.Resume.Load()
	writeJSON(w, http.StatusOK, adminResumeResponse{
		Resume: resume,
		Text:   render.ResumeText(resume),
		Errors: form.ValidateResume(resume),
	})
}
