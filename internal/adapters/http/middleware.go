package httpadapter

import (
	"bufio"
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader = "X-Request-Id"

	msgTooManyRequests = "Too many requests. Please wait a moment and try again."
	msgUnauthorized    = "Unauthorized"
	limiterIdleTTL     = 10 * time.Minute
)

type requestIDContextKey struct{}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	requestID, _ := ctx.Value(requestIDContextKey{}).(string)
	return requestID
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDContextKey{}, requestID)
		r = r.WithContext(ctx)
		w.Header().Set(requestIDHeader, requestID)

		next.ServeHTTP(w, r)
	})
}

func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(recorder, r)

		logAttrs := []any{
			"request_id", requestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.statusCode,
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"bytes", recorder.bytesWritten,
			"remote_addr", clientIP(r),
			"user_agent", r.UserAgent(),
		}

		switch {
		case recorder.statusCode >= 500:
			slog.Error("http_request", logAttrs...)
		case recorder.statusCode >= 400:
			slog.Warn("http_request", logAttrs...)
		default:
			slog.Info("http_request", logAttrs...)
		}
	})
}

func corsMiddleware(allowedOrigin string) func(http.Handler) http.Handler {
	origins := []string{"*"}
	if origin := strings.TrimRight(strings.TrimSpace(allowedOrigin), "/"); origin != "" {
		origins = []string{origin}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, "Content-Disposition", "Retry-After"},
		MaxAge:         300,
	})
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter keeps one token bucket per client address.
type ipRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*limiterEntry
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

func newIPRateLimiter(rps float64, burst int) *ipRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &ipRateLimiter{
		clients: make(map[string]*limiterEntry),
		limit:   rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.clients[ip]
	if !ok {
		l.evictIdle(now)
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (l *ipRateLimiter) evictIdle(now time.Time) {
	for ip, entry := range l.clients {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(l.clients, ip)
		}
	}
}

func (l *ipRateLimiter) retryAfterSeconds() int {
	if l.limit <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(1/float64(l.limit))))
}

// rateLimitMiddleware is a no-op when rps is not positive.
func rateLimitMiddleware(next http.Handler, rps float64, burst int) http.Handler {
	if rps <= 0 {
		return next
	}
	limiter := newIPRateLimiter(rps, burst)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.allow(clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(limiter.retryAfterSeconds()))
			writeError(w, http.StatusTooManyRequests, msgTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// adminTokenMiddleware requires "Authorization: Bearer <token>". With no token
// configured the wrapped routes answer 404 as if they did not exist.
func adminTokenMiddleware(next http.Handler, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token == "" {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(token)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
			writeError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
