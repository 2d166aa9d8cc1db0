// Package server serves the compiler over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/malphas-lang/humanabi/internal/config"
	"github.com/malphas-lang/humanabi/internal/metrics"
)

// Server is the HTTP front of the compiler. Each request compiles with fresh
// state; the result cache is the only shared structure.
type Server struct {
	opts    *config.Options
	logger  *zap.Logger
	metrics *metrics.Metrics
	cache   *resultCache

	engine   *gin.Engine
	http     *http.Server
	listener net.Listener
}

// New builds the routes. Call Start to begin serving.
func New(opts *config.Options, logger *zap.Logger, m *metrics.Metrics) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	cache, err := newResultCache(opts.Server.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("result cache: %w", err)
	}

	gin.SetMode(opts.Server.GinMode)
	s := &Server{
		opts:    opts,
		logger:  logger.Named("server"),
		metrics: m,
		cache:   cache,
		engine:  gin.New(),
	}
	s.routes()
	s.http = &http.Server{
		Addr:              opts.Server.Listen,
		Handler:           s.engine,
		ReadHeaderTimeout: time.Duration(opts.Server.ReadTimeoutSec) * time.Second,
		ReadTimeout:       time.Duration(opts.Server.ReadTimeoutSec) * time.Second,
	}
	return s, nil
}

func (s *Server) routes() {
	s.engine.Use(gin.Recovery(), requestID(), s.observe())

	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := s.engine.Group("/v1", limitBody(s.opts.Server.MaxBodyBytes))
	v1.POST("/parse", s.handleParse)
	v1.POST("/selectors", s.handleSelectors)
	v1.POST("/parameters", s.handleParameters)
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Start listens on the configured address and serves in the background.
func (s *Server) Start(context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	s.listener = ln
	s.logger.Info("listening", zap.String("addr", ln.Addr().String()))

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve failed", zap.Error(err))
		}
	}()
	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down")
	return s.http.Shutdown(ctx)
}
