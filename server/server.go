// Package server exposes one sheet over HTTP and a WebSocket edit stream.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/witanlabs/gridcalc/engine"
)

const shutdownTimeout = 5 * time.Second

type Options struct {
	// APIKey, when set, is required as a bearer token on /api/v1.
	APIKey string
	Logger *slog.Logger
	// WindowHeight and WindowWidth size viewports when the request does
	// not say.
	WindowHeight int
	WindowWidth  int
}

// Server owns one sheet and serializes every request against it.
type Server struct {
	mu     sync.Mutex
	sheet  *engine.Sheet
	logger *slog.Logger
	opts   Options
	router *gin.Engine
}

func New(sheet *engine.Sheet, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.WindowHeight <= 0 {
		opts.WindowHeight = 10
	}
	if opts.WindowWidth <= 0 {
		opts.WindowWidth = 10
	}
	s := &Server{sheet: sheet, logger: opts.Logger, opts: opts}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	r.GET("/healthcheck", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1", requireAPIKey(s.opts.APIKey))
	api.GET("/cells/:cell", s.handleGetCell)
	api.PUT("/cells/:cell", s.handleSetCell)
	api.GET("/viewport", s.handleViewport)
	api.GET("/ws", s.handleStream)
	return r
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server listening", "addr", ln.Addr().String(),
			"rows", s.sheet.Rows(), "cols", s.sheet.Cols())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// withSheet runs fn while holding the sheet lock.
func (s *Server) withSheet(fn func(*engine.Sheet)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.sheet)
}
