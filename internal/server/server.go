// Package server exposes the session host over a small JSON API.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/profiler/internal/config"
	"github.com/abhisek/profiler/internal/host"
	"github.com/abhisek/profiler/internal/metrics"
	"github.com/abhisek/profiler/internal/sessions"
)

const adminHeader = "X-Admin-Password"

// saveLease is how long a result write claim blocks other writers. A claim
// older than this belongs to a request that died and may be taken over.
const saveLease = 30 * time.Second

// Pinger reports backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP front end of the session host.
type Server struct {
	host     *host.Host
	registry sessions.Registry
	metrics  *metrics.Metrics
	health   Pinger
	log      *zap.Logger
	cfg      config.ServerConfig
	router   *gin.Engine
	now      func() time.Time
}

// New wires the routes. health and m may be nil.
func New(h *host.Host, registry sessions.Registry, health Pinger, m *metrics.Metrics, cfg config.ServerConfig, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		host:     h,
		registry: registry,
		metrics:  m,
		health:   health,
		log:      log.Named("http"),
		cfg:      cfg,
		now:      time.Now,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log), cors(s.cfg.AllowedOrigins))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware())
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	r.GET("/healthz", s.healthz)

	api := r.Group("/api/v1")
	api.GET("/questions", s.listQuestions)

	create := []gin.HandlerFunc{}
	if s.cfg.RateLimit > 0 {
		create = append(create, newIPLimiter(s.cfg.RateLimit).middleware())
	}
	api.POST("/sessions", append(create, s.createSession)...)

	sess := api.Group("/sessions/:token")
	sess.GET("", s.getSession)
	sess.DELETE("", s.deleteSession)
	sess.POST("/answers", s.answer)
	sess.POST("/retake", s.retake)
	sess.GET("/plan", s.plan)

	api.GET("/results", s.listResults)
	return r
}

// Run serves on cfg.Addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) healthz(c *gin.Context) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			s.log.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, Response{Code: codeInternal, Message: "store unavailable"})
			return
		}
	}
	success(c, http.StatusOK, gin.H{"status": "ok"})
}
