// Package auth tracks who is using the admin area.
package auth

import "github.com/debemdeboas/folio/internal/model"

// Session is either Anonymous or Authenticated. The unexported method keeps
// other packages from adding variants.
type Session interface {
	isSession()
}

type Anonymous struct{}

// Authenticated carries the backend's user and the bearer token it issued.
type Authenticated struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

func (Anonymous) isSession()     {}
func (Authenticated) isSession() {}

func IsAdmin(s Session) bool {
	a, ok := s.(Authenticated)
	return ok && a.User.Role == model.RoleAdmin
}

// Token returns the bearer token of an authenticated session, or "".
func Token(s Session) string {
	if a, ok := s.(Authenticated); ok {
		return a.Token
	}
	return ""
}
