// Package server exposes the request console over HTTP. Every browser
// session gets its own set of lanes, reachable under /api/console, and the
// embedded landing page and test terminal are served for everything else.
package server

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/fortressguard/fortress/config"
	"github.com/fortressguard/fortress/console"
	"github.com/fortressguard/fortress/internal/static"
	"github.com/fortressguard/fortress/internal/web"
)

const (
	Title           = "FortressGuard Console"
	APIPrefix       = "/api/"
	OpenAPIPath     = "/api/openapi"
	DocsPath        = "/api/docs"
	shutdownTimeout = 10 * time.Second
)

// Options configures a Server. API is shared by all sessions; only lane
// state is per session.
type Options struct {
	Project *config.ProjectConfig
	API     console.API
	// APIURL is shown by the health check.
	APIURL  string
	Version string
	Logger  *slog.Logger
	// Assets defaults to the embedded site.
	Assets fs.FS
}

type Server struct {
	project  *config.ProjectConfig
	api      huma.API
	handler  http.Handler
	app      *fiber.App
	sessions *SessionStore
	logger   *slog.Logger
}

// HumaConfig is the OpenAPI configuration shared by the server and the
// openapi generator.
func HumaConfig(version string, docs bool) huma.Config {
	cfg := huma.DefaultConfig(Title, version)
	cfg.Info.Description = "Session-scoped console over the FortressGuard password and encryption API"
	cfg.OpenAPIPath = OpenAPIPath
	cfg.SchemasPath = "/api/schemas"
	cfg.DocsPath = ""
	if docs {
		cfg.DocsPath = DocsPath
	}
	return cfg
}

// Register adds every console operation to api, backed by sessions.
func Register(api huma.API, sessions *SessionStore, version, apiURL string) {
	rt := &routes{sessions: sessions, name: Title, version: version, apiURL: apiURL}
	rt.register(api)
}

func New(opts Options) (*Server, error) {
	if opts.API == nil {
		return nil, errors.New("server: API is required")
	}
	project := opts.Project
	if project == nil {
		project = config.DefaultProjectConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	assets := opts.Assets
	if assets == nil {
		assets = web.Assets()
	}

	sessions := NewSessionStore(func() *console.Console {
		return console.New(opts.API, console.WithLogger(logger))
	}, time.Duration(project.Console.SessionTTLMinutes)*time.Minute, project.Console.MaxSessions)

	staticCfg := static.StaticConfig{APIPrefix: APIPrefix}
	b, err := mount(project.Router, HumaConfig(opts.Version, project.Console.DocsEnabled()), assets, staticCfg)
	if err != nil {
		return nil, err
	}
	b.api.UseMiddleware(requestLogger(logger))
	Register(b.api, sessions, opts.Version, opts.APIURL)
	b.finish(assets, staticCfg)

	return &Server{
		project:  project,
		api:      b.api,
		handler:  b.handler,
		app:      b.app,
		sessions: sessions,
		logger:   logger,
	}, nil
}

func (s *Server) API() huma.API {
	return s.api
}

// Handler serves the whole site through net/http, whichever router is
// mounted.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Addr is the host:port the server listens on.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.project.Host, strconv.Itoa(s.project.Port))
}

// Run listens until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := s.Addr()
	s.logger.Info("Starting console", "addr", addr, "router", s.project.Router)

	errCh := make(chan error, 1)
	var shutdown func(context.Context) error

	if s.app != nil {
		go func() { errCh <- s.app.Listen(addr) }()
		shutdown = s.app.ShutdownWithContext
	} else {
		srv := &http.Server{
			Addr:              addr,
			Handler:           s.handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
				return
			}
			errCh <- nil
		}()
		shutdown = srv.Shutdown
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down console")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return shutdown(shutdownCtx)
}
