package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"Mansoor88-6/launcher-kit/internal/bridge"
	"Mansoor88-6/launcher-kit/internal/config"
	"Mansoor88-6/launcher-kit/internal/events"
	"Mansoor88-6/launcher-kit/internal/models"
	"Mansoor88-6/launcher-kit/internal/monitoring"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// JournalReader lists journaled app events, newest first
type JournalReader interface {
	Recent(ctx context.Context, limit int) ([]models.AppEvent, error)
}

// Server exposes a bridge module over HTTP and streams its events over
// WebSocket
type Server struct {
	cfg     config.ServerConfig
	module  bridge.Module
	journal JournalReader
	metrics *monitoring.Metrics
	logger  *zap.Logger

	hub    *hub
	engine *gin.Engine

	mu         sync.Mutex
	httpServer *http.Server
}

// New creates a bridge server. emitter is observed for every emission;
// journal and metrics may be nil.
func New(cfg config.ServerConfig, module bridge.Module, emitter *events.Emitter, journal JournalReader, metrics *monitoring.Metrics, logger *zap.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		module:  module,
		journal: journal,
		metrics: metrics,
		logger:  logger,
		hub:     newHub(metrics, logger.Named("ws")),
	}
	if emitter != nil {
		emitter.Observe(s.hub.broadcast)
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	if s.metrics != nil {
		r.Use(s.metrics.Middleware())
	}
	r.Use(cors.New(s.corsConfig()))
	if s.cfg.RateLimitRPS > 0 {
		r.Use(rateLimit(newClientLimiters(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst, limiterIdleTTL)))
	}

	r.GET("/health", s.handleHealth)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})))
	}

	api := r.Group("/api/v1")
	api.POST("/bridge/:method", s.handleBridge)
	api.GET("/events", s.handleEvents)
	api.GET("/journal", s.handleJournal)
	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "Accept", "Origin"},
		MaxAge:       time.Hour,
	}
	if len(s.cfg.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.cfg.AllowOrigins
	}
	return cfg
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("remote_addr", c.ClientIP()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// limiterIdleTTL is how long a client's bucket outlives its last request
const limiterIdleTTL = 10 * time.Minute

type limitedClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters holds one token bucket per client IP. Buckets idle for
// longer than ttl are swept on access, at most once per ttl.
type clientLimiters struct {
	rps   rate.Limit
	burst int
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	clients   map[string]*limitedClient
	lastSweep time.Time
}

func newClientLimiters(rps float64, burst int, ttl time.Duration) *clientLimiters {
	if burst <= 0 {
		burst = 1
	}
	return &clientLimiters{
		rps:     rate.Limit(rps),
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
		clients: make(map[string]*limitedClient),
	}
}

func (l *clientLimiters) allow(ip string) bool {
	now := l.now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) >= l.ttl {
		for key, c := range l.clients {
			if now.Sub(c.lastSeen) >= l.ttl {
				delete(l.clients, key)
			}
		}
		l.lastSweep = now
	}
	c, ok := l.clients[ip]
	if !ok {
		c = &limitedClient{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	l.mu.Unlock()

	return c.limiter.AllowN(now, 1)
}

func (l *clientLimiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// rateLimit applies a token bucket per client IP
func rateLimit(limiters *clientLimiters) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiters.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": bridge.WireError{Kind: "rate_limited", Message: "rate limit exceeded"},
			})
			return
		}
		c.Next()
	}
}

// Start listens on the configured address in the background
func (s *Server) Start() error {
	s.mu.Lock()
	if s.httpServer != nil {
		s.mu.Unlock()
		return errors.New("server already started")
	}
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = srv
	s.mu.Unlock()

	go func() {
		s.logger.Info("Bridge server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Bridge server failed", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown stops accepting requests, disconnects event streams and waits
// for active requests until ctx is done
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.closeAll()

	s.mu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
