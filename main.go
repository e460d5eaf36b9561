package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/folio/internal/api"
	"github.com/debemdeboas/folio/internal/auth"
	"github.com/debemdeboas/folio/internal/cache"
	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/db"
	"github.com/debemdeboas/folio/internal/editor"
	"github.com/debemdeboas/folio/internal/logger"
	"github.com/debemdeboas/folio/internal/render"
	"github.com/debemdeboas/folio/internal/repository"
	"github.com/debemdeboas/folio/internal/routes"
	"github.com/debemdeboas/folio/internal/sse"
)

const configPath = "config.yaml"

func main() {
	envErr := godotenv.Load()

	if err := config.LoadConfig(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	cfg := config.AppConfig

	log := logger.New(cfg.Logging.Level)
	setLoggers(log)
	if envErr != nil {
		log.Debug().Err(envErr).Msg("No .env file loaded")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func setLoggers(log zerolog.Logger) {
	config.SetLogger(logger.Component(log, "config"))
	db.SetLogger(logger.Component(log, "db"))
	repository.SetLogger(logger.Component(log, "repository"))
	cache.SetLogger(logger.Component(log, "cache"))
	render.SetLogger(logger.Component(log, "render"))
	sse.SetLogger(logger.Component(log, "sse"))
	auth.SetLogger(logger.Component(log, "auth"))
	editor.SetLogger(logger.Component(log, "editor"))
	routes.SetLogger(logger.Component(log, "routes"))
}

func run(cfg *config.Config, log zerolog.Logger) error {
	kv, closeKV, err := newKV(cfg.Storage)
	if err != nil {
		return err
	}
	defer closeKV()

	store, err := newSnapshotStore(cfg.Cache, log)
	if err != nil {
		return err
	}

	events := sse.NewClients()
	opts := []api.Option{
		api.WithCache(store),
		api.WithToken(cfg.API.Token),
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout()}),
		api.WithLogger(logger.Component(log, "api")),
	}
	if cfg.Features.Events.Enabled {
		opts = append(opts, api.WithInvalidator(events))
	} else {
		events = nil
	}
	client := api.New(cfg.API.BaseURL, opts...)

	resume := repository.NewResumeRepository(kv, cfg.Storage.ResumeKey)

	server := &routes.Server{
		API:         client,
		Resume:      resume,
		Messages:    repository.NewMessageRepository(kv, cfg.Storage.MessagesKey),
		Editor:      editor.NewHandler(editor.NewMemoryRepository(), routes.Openers(client, resume, cfg.Editor.ImageSlots)),
		Events:      events,
		SiteName:    cfg.Site.Name,
		SyntaxTheme: cfg.Editor.SyntaxTheme,
		Preview:     cfg.Features.Preview.Enabled,
	}

	adminOnly := func(next http.HandlerFunc) http.HandlerFunc { return next }
	var withSession func(http.Handler) http.Handler
	if cfg.Features.Authentication.Enabled {
		ttl := time.Duration(cfg.Features.Authentication.SessionHours) * time.Hour
		provider := auth.NewCookieAuthProvider(auth.NewStore(ttl), os.Getenv(config.EnvInsecureCookies) == "")
		server.Auth = provider
		adminOnly = provider.RequireAdmin
		withSession = provider.WithSession()
	} else {
		log.Warn().Msg("Authentication is disabled, admin routes are open")
	}

	mux := http.NewServeMux()
	server.Register(mux, adminOnly)

	var handler http.Handler = mux
	if withSession != nil {
		handler = withSession(handler)
	}
	handler = noCache(secureHeaders(handler))

	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("backend", cfg.API.BaseURL).Msg("Server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newKV opens the local store the resume lives in.
func newKV(cfg config.StorageConfig) (db.KV, func(), error) {
	switch cfg.Driver {
	case "memory":
		return db.NewMemory(), func() {}, nil
	case "sqlite", "":
		sqlite := db.NewSQLite(cfg.Path)
		if err := sqlite.InitDb(); err != nil {
			return nil, nil, fmt.Errorf(config.ErrInitializeStorageFmt, err)
		}
		return sqlite, func() { _ = sqlite.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// newSnapshotStore picks where list snapshots are cached. An unreachable
// Redis degrades to the in-process store.
func newSnapshotStore(cfg config.CacheConfig, log zerolog.Logger) (cache.Store, error) {
	switch cfg.Driver {
	case "none":
		return cache.NopStore{}, nil
	case "memory", "":
		return cache.NewMemoryStore(cfg.TTL()), nil
	case "redis":
		opts := cache.RedisOptions{
			Addrs:    cfg.Redis.Addrs,
			Prefix:   cfg.Redis.Prefix,
			PoolSize: cfg.Redis.PoolSize,
			TTL:      cfg.TTL(),
			Compress: cfg.Redis.Compress,
		}
		client := cache.NewRedisClient(opts)
		store := cache.NewRedisStore(client, opts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.HealthCheck(ctx); err != nil {
			log.Warn().Err(err).Strs("addrs", cfg.Redis.Addrs).Msg("Redis unavailable, caching in memory")
			_ = client.Close()
			return cache.NewMemoryStore(cfg.TTL()), nil
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

func noCache(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCacheControl, "no-store")
		w.Header().Set("Vary", "Cookie")
		h.ServeHTTP(w, r)
	})
}

func secureHeaders(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set(config.HContentOptions, "nosniff")
		w.Header().Set("Referrer-Policy", "same-origin")
		h.ServeHTTP(w, r)
	})
}
