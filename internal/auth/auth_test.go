package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/model"
)

var admin = Authenticated{
	User:  model.User{ID: "u1", Name: "Ada", Role: model.RoleAdmin},
	Token: "token-1",
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		want    bool
	}{
		{"Anonymous", Anonymous{}, false},
		{"Admin", admin, true},
		{"Plain user", Authenticated{User: model.User{ID: "u2", Role: model.RoleUser}}, false},
		{"Nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAdmin(tt.session); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestToken(t *testing.T) {
	if got := Token(admin); got != "token-1" {
		t.Errorf("Expected token-1, got %q", got)
	}
	if got := Token(Anonymous{}); got != "" {
		t.Errorf("Expected empty token, got %q", got)
	}
}

func TestSessionContext(t *testing.T) {
	if _, ok := SessionFromContext(context.Background()).(Anonymous); !ok {
		t.Error("Expected Anonymous without a session in context")
	}

	ctx := ContextWithSession(context.Background(), admin)
	got, ok := SessionFromContext(ctx).(Authenticated)
	if !ok || got.User.ID != "u1" {
		t.Errorf("Expected admin session, got %+v", got)
	}
}

func TestStore(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore(time.Hour)
	store.now = func() time.Time { return now }

	id, expires := store.Create(admin)
	if id == "" {
		t.Fatal("Expected a session id")
	}
	if !expires.Equal(now.Add(time.Hour)) {
		t.Errorf("Expected expiry %v, got %v", now.Add(time.Hour), expires)
	}

	t.Run("Lookup", func(t *testing.T) {
		if !IsAdmin(store.Lookup(id)) {
			t.Error("Expected admin session")
		}
		if _, ok := store.Lookup("unknown").(Anonymous); !ok {
			t.Error("Expected Anonymous for unknown id")
		}
	})

	t.Run("Expiry", func(t *testing.T) {
		now = now.Add(time.Hour)
		if _, ok := store.Lookup(id).(Anonymous); !ok {
			t.Error("Expected expired session to be Anonymous")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		id, _ := store.Create(admin)
		store.Delete(id)
		if _, ok := store.Lookup(id).(Anonymous); !ok {
			t.Error("Expected deleted session to be Anonymous")
		}
	})
}

func TestStoreForgetsExpiredLogins(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore(time.Hour)
	store.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		store.Create(admin)
	}
	now = now.Add(2 * time.Hour)
	id, _ := store.Create(admin)

	if n := store.sessions.Len(); n != 1 {
		t.Errorf("Expected expired logins to be dropped, got %d stored", n)
	}
	if !IsAdmin(store.Lookup(id)) {
		t.Error("Expected the new login to stay")
	}
}

func TestCookieAuthProvider(t *testing.T) {
	SetLogger(zerolog.Nop())
	provider := NewCookieAuthProvider(NewStore(time.Hour), false)

	protected := provider.WithSession()(provider.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("No cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", rec.Code)
		}
	})

	t.Run("Signed in", func(t *testing.T) {
		signIn := httptest.NewRecorder()
		provider.SignIn(signIn, admin)

		cookies := signIn.Result().Cookies()
		if len(cookies) != 1 || cookies[0].Name != config.CookieSession || !cookies[0].HttpOnly {
			t.Fatalf("Expected one http-only session cookie, got %+v", cookies)
		}

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(cookies[0])
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("Expected status 204, got %d", rec.Code)
		}

		t.Run("Signed out", func(t *testing.T) {
			out := httptest.NewRecorder()
			provider.SignOut(out, req)

			cleared := out.Result().Cookies()
			if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
				t.Errorf("Expected an expiring cookie, got %+v", cleared)
			}

			again := httptest.NewRequest(http.MethodGet, "/admin", nil)
			again.AddCookie(cookies[0])
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, again)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401 after sign out, got %d", rec.Code)
			}
		})
	})

	t.Run("Non-admin user", func(t *testing.T) {
		signIn := httptest.NewRecorder()
		provider.SignIn(signIn, Authenticated{User: model.User{ID: "u2", Role: model.RoleUser}})

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(signIn.Result().Cookies()[0])
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", rec.Code)
		}
	})
}
