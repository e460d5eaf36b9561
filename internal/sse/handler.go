package sse

import (
	"fmt"
	"net/http"

	"github.com/debemdeboas/folio/internal/config"
)

// Handler streams the events of the tag named by the "tag" query parameter
// until the client goes away.
func (s *Clients) Handler(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get("tag")
	if tag == "" {
		http.Error(w, "Tag parameter required", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, config.CTypeSSE)
	w.Header().Set(config.HCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Del(config.HContentOptions)

	client := NewClient(tag)
	s.Add(client)
	sseLogger.Debug().Str("tag", tag).Msg("SSE client connected")

	defer func() {
		s.Delete(client)
		sseLogger.Debug().Str("tag", tag).Msg("SSE client disconnected")
	}()

	writeEvent(w, Event{Name: EventConnected, Data: tag})
	flusher.Flush()

	notify := r.Context().Done()
	for {
		select {
		case ev, ok := <-client.Msg:
			if !ok {
				return
			}
			writeEvent(w, ev)
			flusher.Flush()
		case <-notify:
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, ev Event) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Data)
}
