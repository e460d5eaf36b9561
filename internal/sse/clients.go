// Package sse pushes cache invalidation events to connected admin views.
package sse

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

const (
	EventConnected  = "connected"
	EventInvalidate = "invalidate"
)

// ClientBuffer is how many events a slow client may fall behind before
// further events to it are dropped.
const ClientBuffer = 8

var sseLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	sseLogger = l
}

type Event struct {
	Name string
	Data string
}

type Client struct {
	Msg chan Event
	Tag string
}

func NewClient(tag string) *Client {
	return &Client{
		Msg: make(chan Event, ClientBuffer),
		Tag: tag,
	}
}

type Clients struct {
	clients map[*Client]bool
	mu      sync.RWMutex
}

func NewClients() *Clients {
	return &Clients{
		clients: make(map[*Client]bool),
	}
}

func (s *Clients) Add(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
}

func (s *Clients) Delete(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[client]; !ok {
		return
	}
	delete(s.clients, client)
	close(client.Msg)
}

func (s *Clients) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Broadcast sends ev to every client subscribed to tag and reports how many
// received it.
func (s *Clients) Broadcast(tag string, ev Event) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sent := 0
	for client := range s.clients {
		if client.Tag != tag {
			continue
		}
		select {
		case client.Msg <- ev:
			sent++
		default:
			sseLogger.Warn().Str("tag", tag).Str("event", ev.Name).Msg("Dropping event for slow client")
		}
	}
	return sent
}

// Invalidate tells subscribers of tag that their list snapshot is stale.
func (s *Clients) Invalidate(_ context.Context, tag string) error {
	sent := s.Broadcast(tag, Event{Name: EventInvalidate, Data: tag})
	sseLogger.Debug().Str("tag", tag).Int("clients", sent).Msg("Invalidation broadcast")
	return nil
}
