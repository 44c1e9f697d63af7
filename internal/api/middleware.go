package api

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/foxzi/lexdraft/internal/metrics"
	"github.com/foxzi/lexdraft/internal/ratelimit"
	"github.com/foxzi/lexdraft/internal/session"
)

const (
	defaultCookieName = "lexdraft_session"
	sessionHeader     = "X-Session-ID"
)

type contextKey string

const sessionKey contextKey = "session_id"

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"bytes", ww.BytesWritten(),
			"remote_addr", r.RemoteAddr,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// authMiddleware checks API key authentication
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config.APIKey == "" {
			// No API key configured, allow all
			next.ServeHTTP(w, r)
			return
		}

		// Check Authorization header
		auth := r.Header.Get("Authorization")
		if auth == "" {
			// Also check X-API-Key header
			auth = r.Header.Get("X-API-Key")
		}
		auth = strings.TrimPrefix(auth, "Bearer ")

		if auth != s.config.APIKey {
			s.logger.Warn("unauthorized API request",
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
			)
			s.sendError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// sessionMiddleware resolves the client session from the X-Session-ID header
// or the session cookie, issuing a new id when neither holds a valid one
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(sessionHeader)
		if id == "" {
			if c, err := r.Cookie(s.cookieName); err == nil {
				id = c.Value
			}
		}

		if _, err := uuid.Parse(id); err != nil {
			id = session.NewID()
			http.SetCookie(w, &http.Cookie{
				Name:     s.cookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.tlsConfig != nil,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set(sessionHeader, id)

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, id)))
	})
}

// sessionID returns the session id resolved by sessionMiddleware
func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionKey).(string)
	return id
}

// rateLimitMiddleware counts the request against the client IP and session
// limits, answering 429 once a limit is exhausted
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.rateLimiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}

		result, err := s.rateLimiter.Allow(r.Context(), &ratelimit.Request{
			IP:      ip,
			Session: sessionID(r),
		})
		if err != nil {
			s.logger.Error("rate limit check error", "error", err)
			next.ServeHTTP(w, r) // Don't block on errors
			return
		}

		if !result.Allowed {
			s.logger.Warn("rate limit exceeded",
				"level", result.DeniedBy,
				"key", result.DeniedKey,
				"retry_after", result.RetryAfter,
			)
			metrics.IncRateLimitExceeded(string(result.DeniedBy))

			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(result.RetryAfter.Seconds()))))
			s.sendError(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
