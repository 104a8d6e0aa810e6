package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chatdesk/internal/config"
	"chatdesk/internal/logger"
	"chatdesk/internal/metrics"
	"chatdesk/internal/pipeline"
)

// Server is the HTTP face of the chat service.
type Server struct {
	cfg       config.ServerConfig
	deps      *pipeline.Deps
	pipe      *pipeline.Pipeline
	engine    *gin.Engine
	startTime time.Time
}

func New(cfg config.ServerConfig, deps *pipeline.Deps) *Server {
	s := &Server{
		cfg:       cfg,
		deps:      deps,
		pipe:      pipeline.New(pipeline.Stages(deps)...),
		startTime: time.Now(),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(s.recovery(), s.observe())
	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	engine.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	engine.POST("/chat", s.handleChat)
	engine.GET("/faq-menu", s.handleFAQMenu)
	engine.GET("/healthz", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine = engine
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves HTTP until the listener fails or ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	srv := &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info().Str("addr", addr).Msg("http server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// observe records request count and lets zerolog carry the access log.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		metrics.RequestCount.WithLabelValues(c.Request.Method, c.FullPath(), strconv.Itoa(status)).Inc()
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// recovery converts panics into the generic 500 body; diagnostic detail
// stays in the server log only.
func (s *Server) recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("recovered from panic")
				s.writeInternalError(c)
			}
		}()
		c.Next()
	}
}

type healthResponse struct {
	Status     string `json:"status"`
	Uptime     string `json:"uptime"`
	Generation bool   `json:"generation"`
	Contexts   int    `json:"contexts"`
}

func (s *Server) handleHealth(c *gin.Context) {
	writeJSON(c, http.StatusOK, healthResponse{
		Status:     "ok",
		Uptime:     time.Since(s.startTime).Round(time.Second).String(),
		Generation: s.deps.Generator.Available(),
		Contexts:   s.deps.Store.Len(),
	})
}
