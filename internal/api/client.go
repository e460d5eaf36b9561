// Package api talks to the backend that owns posts, projects and logins.
// Reads of whole lists go through a snapshot cache keyed by tag; a tag is
// invalidated only after the backend acknowledges a mutation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/folio/internal/auth"
	"github.com/debemdeboas/folio/internal/cache"
	"github.com/debemdeboas/folio/internal/config"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend answered %d", e.Status)
	}
	return fmt.Sprintf("backend answered %d: %s", e.Status, e.Message)
}

// Invalidator learns that the snapshot for a tag is stale.
type Invalidator interface {
	Invalidate(ctx context.Context, tag string) error
}

type Client struct {
	baseURL      string
	http         *http.Client
	token        string
	store        cache.Store
	invalidators []Invalidator
	logger       zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken sets the bearer token used when the request context carries no
// authenticated session.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithCache(store cache.Store) Option {
	return func(c *Client) { c.store = store }
}

// WithInvalidator adds a listener told about every invalidated tag, after the
// snapshot cache itself.
func WithInvalidator(inv Invalidator) Option {
	return func(c *Client) { c.invalidators = append(c.invalidators, inv) }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		store:   cache.NopStore{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invalidate drops the snapshot for tag and notifies every listener. Errors
// are logged; the first one is returned.
func (c *Client) Invalidate(ctx context.Context, tag string) error {
	var first error
	if err := c.store.Invalidate(ctx, tag); err != nil {
		c.logger.Error().Err(err).Str("tag", tag).Msg("Error invalidating snapshot")
		first = err
	}
	for _, inv := range c.invalidators {
		if err := inv.Invalidate(ctx, tag); err != nil {
			c.logger.Error().Err(err).Str("tag", tag).Msg("Error notifying invalidation")
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func (c *Client) bearer(ctx context.Context) string {
	if token := auth.Token(auth.SessionFromContext(ctx)); token != "" {
		return token
	}
	return c.token
}

// do sends one request and reads the whole answer. A non-nil error means the
// backend was not reached or its answer could not be read.
func (c *Client) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", config.CTypeJSON)
	if body != nil {
		req.Header.Set(config.HCType, config.CTypeJSON)
	}
	if token := c.bearer(ctx); token != "" {
		req.Header.Set(config.HAuthorization, "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("Backend request")
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

// get fetches path and decodes it with decode, mapping 404 to ErrNotFound.
func get[T any](ctx context.Context, c *Client, path string, decode func([]byte) (T, error)) (T, error) {
	var zero T

	status, data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg(config.ErrBackendUnavailable)
		return zero, err
	}
	if status == http.StatusNotFound {
		return zero, ErrNotFound
	}
	if !success(status) {
		err := &StatusError{Status: status, Message: errorMessage(data)}
		c.logger.Error().Err(err).Str("path", path).Msg(config.ErrBackendUnavailable)
		return zero, err
	}

	v, err := decode(data)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg(config.ErrDecodeResponse)
		return zero, fmt.Errorf("%s: %w", config.ErrDecodeResponse, err)
	}
	return v, nil
}

// listSnapshot serves tag from the snapshot cache, fetching path on a miss.
// The cache holds the normalized list, so every read decodes a fresh slice.
// A list fetched across an Invalidate of tag is returned but not cached.
func listSnapshot[T any](ctx context.Context, c *Client, tag, path string) ([]T, error) {
	data, found, err := c.store.Get(ctx, tag)
	if err != nil {
		c.logger.Warn().Err(err).Str("tag", tag).Msg("Error reading snapshot, fetching")
	}
	if found {
		var items []T
		if err := json.Unmarshal(data, &items); err == nil {
			c.logger.Debug().Str("tag", tag).Msg("Snapshot hit")
			return items, nil
		}
		c.logger.Warn().Str("tag", tag).Msg("Discarding unreadable snapshot")
	}

	gen, genErr := c.store.Generation(ctx, tag)

	items, err := get(ctx, c, path, decodeList[T])
	if err != nil {
		return nil, err
	}

	if genErr != nil {
		c.logger.Warn().Err(genErr).Str("tag", tag).Msg("Error reading snapshot generation, not caching")
		return items, nil
	}

	encoded, err := json.Marshal(items)
	if err == nil {
		_, err = c.store.Set(ctx, tag, gen, encoded)
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("tag", tag).Msg("Error storing snapshot")
	}
	return items, nil
}

func success(status int) bool {
	return status >= 200 && status < 300
}
