// Package routes mounts the admin and public HTTP endpoints.
package routes

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/folio/internal/api"
	"github.com/debemdeboas/folio/internal/auth"
	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/editor"
	"github.com/debemdeboas/folio/internal/repository"
	"github.com/debemdeboas/folio/internal/sse"
)

const (
	AdminLogin       = "POST /admin/login"
	AdminLogout      = "POST /admin/logout"
	AdminMe          = "GET /admin/me"
	AdminDashboard   = "GET /admin"
	AdminPosts       = "GET /admin/posts"
	AdminPost        = "DELETE /admin/posts/{id}"
	AdminProjects    = "GET /admin/projects"
	AdminProject     = "DELETE /admin/projects/{id}"
	AdminMessages    = "GET /admin/messages"
	AdminMessage     = "DELETE /admin/messages/{id}"
	AdminMessageRead = "POST /admin/messages/{id}/read"
	AdminResume      = "GET /admin/resume"
	AdminPreview     = "POST /admin/sessions/{id}/preview"
	AdminThemes      = "GET /admin/syntax-themes"
	AdminEvents      = "GET /admin/events"

	PublicResume  = "GET /resume"
	PublicContact = "POST /contact"
)

const maxBodyBytes = 1 << 16

var routesLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	routesLogger = l
}

// Server holds what the handlers need. A nil Auth leaves login and logout
// unmounted; a nil Events disables the event stream.
type Server struct {
	API      *api.Client
	Resume   repository.ResumeStore
	Messages repository.MessageStore
	Auth     auth.AuthProvider
	Editor   *editor.Handler
	Events   *sse.Clients

	SiteName    string
	SyntaxTheme string
	Preview     bool
}

// Register mounts every endpoint on mux. Admin endpoints are wrapped by
// adminOnly.
func (s *Server) Register(mux *http.ServeMux, adminOnly func(http.HandlerFunc) http.HandlerFunc) {
	if s.Auth != nil {
		mux.HandleFunc(AdminLogin, s.serveLogin)
		mux.HandleFunc(AdminLogout, s.serveLogout)
	}
	mux.HandleFunc(AdminMe, adminOnly(s.serveMe))
	mux.HandleFunc(AdminDashboard, adminOnly(s.serveDashboard))
	mux.HandleFunc(AdminResume, adminOnly(s.serveAdminResume))

	mux.HandleFunc(AdminPosts, adminOnly(s.servePosts))
	mux.HandleFunc(AdminPost, adminOnly(s.serveDeletePost))
	mux.HandleFunc(AdminProjects, adminOnly(s.serveProjects))
	mux.HandleFunc(AdminProject, adminOnly(s.serveDeleteProject))
	mux.HandleFunc(AdminMessages, adminOnly(s.serveMessages))
	mux.HandleFunc(AdminMessageRead, adminOnly(s.serveMarkMessageRead))
	mux.HandleFunc(AdminMessage, adminOnly(s.serveDeleteMessage))

	s.Editor.Register(mux, adminOnly)
	if s.Preview {
		mux.HandleFunc(AdminPreview, adminOnly(s.servePreview))
		mux.HandleFunc(AdminThemes, adminOnly(s.serveSyntaxThemes))
	}
	if s.Events != nil {
		mux.HandleFunc(AdminEvents, adminOnly(s.Events.Handler))
	}

	mux.HandleFunc(PublicResume, s.serveResume)
	mux.HandleFunc(PublicContact, s.serveContact)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		routesLogger.Error().Err(err).Msg("Failed to write response")
	}
}
