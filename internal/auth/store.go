package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/debemdeboas/folio/internal/cache"
)

// Store maps login cookie values to authenticated sessions. Expired logins
// read as Anonymous and are swept out as new ones are created.
type Store struct {
	sessions *cache.Cache[string, Authenticated]
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	s := &Store{
		ttl: ttl,
		now: time.Now,
	}
	s.sessions = cache.NewCacheWithClock[string, Authenticated](ttl, func() time.Time { return s.now() })
	return s
}

func (s *Store) Create(session Authenticated) (string, time.Time) {
	id := uuid.NewString()
	expires := s.now().Add(s.ttl)
	s.sessions.Set(id, session)
	return id, expires
}

// Lookup returns Anonymous for unknown or expired ids.
func (s *Store) Lookup(id string) Session {
	session, ok := s.sessions.Get(id)
	if !ok {
		return Anonymous{}
	}
	return session
}

func (s *Store) Delete(id string) {
	s.sessions.Delete(id)
}
