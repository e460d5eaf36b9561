package routes

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/debemdeboas/folio/internal/api"
	"github.com/debemdeboas/folio/internal/auth"
	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/filter"
	"github.com/debemdeboas/folio/internal/model"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) serveLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, config.ErrInvalidBody)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, config.ErrInvalidCredential)
		return
	}

	session, err := s.API.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, api.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, config.ErrInvalidCredential)
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, config.ErrBackendUnavailable)
		return
	}

	authed, ok := session.(auth.Authenticated)
	if !ok || !auth.IsAdmin(authed) {
		routesLogger.Info().Str("email", req.Email).Msg("Login by non-admin refused")
		writeError(w, http.StatusForbidden, config.ErrUnauthorized)
		return
	}

	s.Auth.SignIn(w, authed)
	writeJSON(w, http.StatusOK, map[string]model.User{"user": authed.User})
}

func (s *Server) serveLogout(w http.ResponseWriter, r *http.Request) {
	s.Auth.SignOut(w, r)
	w.WriteHeader(http.StatusNoContent)
}

type meResponse struct {
	Page    *model.PageData `json:"page"`
	Section string          `json:"section,omitempty"`
	User    *model.User     `json:"user,omitempty"`
}

// serveMe describes the page at ?path= (default: the request path) for the
// admin shell. Section is the label of the nav entry owning that path.
func (s *Server) serveMe(w http.ResponseWriter, r *http.Request) {
	resp := meResponse{Page: model.NewPageData(s.SiteName, pageRequest(r))}
	if item, ok := resp.Page.ActiveItem(); ok {
		resp.Section = item.Label
	}
	if authed, ok := auth.SessionFromContext(r.Context()).(auth.Authenticated); ok {
		resp.User = &authed.User
	}
	writeJSON(w, http.StatusOK, resp)
}

func pageRequest(r *http.Request) *http.Request {
	path := r.URL.Query().Get("path")
	if path == "" || !strings.HasPrefix(path, "/") {
		return r
	}
	u := *r.URL
	u.Path = path
	u.RawQuery = ""
	page := r.Clone(r.Context())
	page.URL = &u
	return page
}

type listResponse[T any] struct {
	Items  []T            `json:"items"`
	Counts map[string]int `json:"counts"`
	Query  string         `json:"q,omitempty"`
	Status string         `json:"status,omitempty"`
}

func newListResponse[T filter.Searchable](items []T, c filter.Criteria, statuses []string) listResponse[T] {
	counts := map[string]int{filter.StatusAll: filter.Count(items, filter.StatusAll)}
	for _, status := range statuses {
		counts[status] = filter.Count(items, status)
	}
	return listResponse[T]{
		Items:  filter.Apply(items, c),
		Counts: counts,
		Query:  c.Text,
		Status: c.Status,
	}
}

func (s *Server) servePosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.API.ListPosts(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, config.ErrBackendUnavailable)
		return
	}

	c := filter.FromQuery(r.URL.Query())
	writeJSON(w, http.StatusOK, newListResponse(posts, c, []string{model.PostStatusPublished, model.PostStatusDraft}))
}

func (s *Server) serveProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.API.ListProjects(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, config.ErrBackendUnavailable)
		return
	}

	statuses := make([]string, 0, len(model.ProjectStatuses))
	for _, status := range model.ProjectStatuses {
		statuses = append(statuses, string(status))
	}

	c := filter.FromQuery(r.URL.Query())
	writeJSON(w, http.StatusOK, newListResponse(projects, c, statuses))
}

func (s *Server) serveDeletePost(w http.ResponseWriter, r *http.Request) {
	res := s.API.DeletePost(r.Context(), model.PostID(r.PathValue("id")))
	writeResult(w, res)
}

func (s *Server) serveDeleteProject(w http.ResponseWriter, r *http.Request) {
	res := s.API.DeleteProject(r.Context(), model.ProjectID(r.PathValue("id")))
	writeResult(w, res)
}

func writeResult(w http.ResponseWriter, res api.Result) {
	if !res.OK {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
