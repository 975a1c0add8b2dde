package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Karlitosc01/Budget-Analysis/internal/cache"
	"github.com/Karlitosc01/Budget-Analysis/internal/core"
	applog "github.com/Karlitosc01/Budget-Analysis/internal/log"
	"github.com/Karlitosc01/Budget-Analysis/internal/middleware/trace"
	"github.com/Karlitosc01/Budget-Analysis/internal/services"
)

// CacheConfig sizes the schedule response cache.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// DefaultCacheConfig returns the standard cache sizing.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{Size: 100, TTL: 30 * time.Second}
}

// Server exposes the schedule and catalogue API. Schedule responses are
// cached per catalogue version and query window; the cache is purged on
// every catalogue replacement.
type Server struct {
	http.Server
	schedules   *services.ScheduleService
	catalogue   *services.CatalogueService
	rateLimiter *rateLimiter
	metrics     *securityMetrics
	tracer      *trace.Middleware

	scheduleCache *cache.LRUCache[core.Schedule]
	cacheManager  *cache.Manager
	shutdownOnce  sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, schedules *services.ScheduleService, catalogue *services.CatalogueService, cacheCfg CacheConfig) *Server {
	mux := http.NewServeMux()

	s := &Server{
		schedules:     schedules,
		catalogue:     catalogue,
		rateLimiter:   newRateLimiter(),
		metrics:       &securityMetrics{},
		tracer:        trace.NewMiddleware(extractClientIP),
		scheduleCache: cache.NewLRUCache[core.Schedule](cacheCfg.Size, cacheCfg.TTL),
		cacheManager:  cache.NewManager(),
	}
	// Outermost: trace assigns the request ID and logs start/stop; the log
	// middleware then puts a request-scoped logger in the context.
	httpLogger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	handler := applog.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})(mux)
	handler = applog.Middleware(httpLogger)(handler)
	s.Server = http.Server{
		Addr:    addr,
		Handler: s.tracer.Middleware(handler),
	}

	s.cacheManager.Register(s.scheduleCache)
	s.cacheManager.StartCleanup(cacheCfg.TTL)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/api/schedule", s.withSecurityHeaders(s.handleSchedule))
	mux.HandleFunc("/api/catalogue", s.withSecurityHeaders(s.handleCatalogueUpload))
	mux.HandleFunc("/api/budget-bar", s.withSecurityHeaders(s.handleBudgetBar))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, suspicious-request detection
// and rate limiting for mutating requests.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := extractClientIP(r)

		logger := applog.FromContext(r.Context())

		if detectSuspiciousRequest(r, s.metrics) {
			logger.WarnContext(r.Context(), "Suspicious request detected",
				"client_ip", clientIP,
				"method", r.Method,
				"url", r.URL.Path)
		}

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.metrics) {
			logger.WarnContext(r.Context(), "Rate limit exceeded",
				"client_ip", clientIP,
				"method", r.Method,
				"url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next(w, r)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
