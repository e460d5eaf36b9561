package api

import (
	"context"
	"encoding/json"

	"github.com/debemdeboas/folio/internal/config"
)

// Patch is a partial entity: only the JSON fields that changed.
type Patch map[string]json.RawMessage

// Result is the outcome of one mutation. Mutations never return errors;
// callers branch on OK and show Message.
type Result struct {
	OK      bool   `json:"ok"`
	Status  int    `json:"status,omitempty"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Err     error  `json:"-"`
}

// mutate issues one request and, only once the backend acknowledged it,
// invalidates tag.
func (c *Client) mutate(ctx context.Context, method, path, tag string, body any) Result {
	status, data, err := c.do(ctx, method, path, body)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg(config.ErrBackendUnavailable)
		return Result{Status: status, Message: config.ErrBackendUnavailable, Err: err}
	}

	if !success(status) {
		msg := errorMessage(data)
		err := &StatusError{Status: status, Message: msg}
		c.logger.Warn().
			Err(err).
			Str("method", method).
			Str("path", path).
			Bytes("body", truncate(data, 512)).
			Msg("Backend rejected mutation")
		if msg == "" {
			msg = config.ErrBackendRejected
		}
		return Result{Status: status, Message: msg, Err: err}
	}

	// The mutation happened; a failed invalidation only costs freshness.
	_ = c.Invalidate(ctx, tag)

	c.logger.Info().Str("method", method).Str("path", path).Str("tag", tag).Msg("Mutation acknowledged")
	return Result{OK: true, Status: status, ID: entityID(data)}
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
