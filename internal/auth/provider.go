package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/folio/internal/config"
)

var authLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	authLogger = l
}

type AuthProvider interface {
	WithSession() func(http.Handler) http.Handler
	RequireAdmin(next http.HandlerFunc) http.HandlerFunc

	SignIn(w http.ResponseWriter, session Authenticated)
	SignOut(w http.ResponseWriter, r *http.Request)
}

// CookieAuthProvider keeps logins server side and hands the browser only an
// opaque id in a cookie.
type CookieAuthProvider struct {
	store      *Store
	cookieName string
	secure     bool
}

func NewCookieAuthProvider(store *Store, secure bool) *CookieAuthProvider {
	return &CookieAuthProvider{
		store:      store,
		cookieName: config.CookieSession,
		secure:     secure,
	}
}

// WithSession puts the request's Session in its context.
func (p *CookieAuthProvider) WithSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var session Session = Anonymous{}
			if cookie, err := r.Cookie(p.cookieName); err == nil && cookie.Value != "" {
				session = p.store.Lookup(cookie.Value)
			}
			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), session)))
		})
	}
}

func (p *CookieAuthProvider) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(SessionFromContext(r.Context())) {
			authLogger.Debug().Str("path", r.URL.Path).Msg("Rejected non-admin request")
			w.Header().Set(config.HCType, config.CTypeJSON)
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": config.ErrUnauthorized})
			return
		}
		next(w, r)
	}
}

func (p *CookieAuthProvider) SignIn(w http.ResponseWriter, session Authenticated) {
	id, expires := p.store.Create(session)
	http.SetCookie(w, &http.Cookie{
		Name:     p.cookieName,
		Value:    id,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
	})
	authLogger.Info().Str("user", string(session.User.ID)).Msg("Signed in")
}

func (p *CookieAuthProvider) SignOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(p.cookieName); err == nil {
		p.store.Delete(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     p.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
