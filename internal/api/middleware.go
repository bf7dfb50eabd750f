package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/dailyenglish/internal/engine"
	"github.com/vytor/dailyenglish/internal/logger"
	"github.com/vytor/dailyenglish/internal/models"
	"github.com/vytor/dailyenglish/internal/services"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

type contextKey string

const (
	identityContextKey contextKey = "identity"
	trackerContextKey  contextKey = "tracker"
)

// Identity headers set by the authenticating proxy in front of the server.
const (
	headerUserID    = "X-User-ID"
	headerUserEmail = "X-User-Email"
	headerUserName  = "X-User-Name"
	headerUserPhoto = "X-User-Photo"
)

func identityFromContext(ctx context.Context) models.Identity {
	if id, ok := ctx.Value(identityContextKey).(models.Identity); ok {
		return id
	}
	return models.Identity{UID: services.LocalUID}
}

func trackerFromContext(ctx context.Context) *engine.Tracker {
	if t, ok := ctx.Value(trackerContextKey).(*engine.Tracker); ok {
		return t
	}
	return nil
}

// identityMiddleware reads the caller's identity from the proxy headers.
// Requests without a user id act as the local-only account.
func identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := models.Identity{
			UID:         strings.TrimSpace(r.Header.Get(headerUserID)),
			Email:       strings.TrimSpace(r.Header.Get(headerUserEmail)),
			DisplayName: strings.TrimSpace(r.Header.Get(headerUserName)),
			PhotoURL:    strings.TrimSpace(r.Header.Get(headerUserPhoto)),
		}
		if id.UID == "" {
			id = models.Identity{UID: services.LocalUID}
		}

		log := logger.FromContext(r.Context()).WithField("uid", id.UID)
		ctx := logger.NewContext(r.Context(), log)
		ctx = context.WithValue(ctx, identityContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// trackerMiddleware attaches the caller's tracker, opening a session on the
// first request.
func (s *Server) trackerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tracker, err := s.Sessions.Open(r.Context(), identityFromContext(r.Context()))
		if err != nil {
			handleError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), trackerContextKey, tracker)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs HTTP requests with timing, status codes, and request IDs.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		log := logger.Default().WithFields(map[string]any{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		if r.RemoteAddr != "" {
			log = log.WithField("remote_addr", r.RemoteAddr)
		}

		ctx := logger.NewContext(r.Context(), log)
		r = r.WithContext(ctx)

		w.Header().Set("X-Request-ID", requestID)
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		log.Debug("request started")
		next.ServeHTTP(wrapped, r)

		log = log.WithFields(map[string]any{
			"status":      wrapped.status,
			"size":        wrapped.size,
			"duration_ms": time.Since(start).Milliseconds(),
		})

		if wrapped.status >= 500 {
			log.Error("request completed with server error")
		} else if wrapped.status >= 400 {
			log.Warn("request completed with client error")
		} else {
			log.Info("request completed")
		}
	})
}

// recoveryMiddleware recovers from panics and logs them.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log := logger.FromContext(r.Context())
				log.Error("panic recovered: %v", rec)
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// securityHeadersMiddleware adds security headers to responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// timeoutMiddleware wraps a handler with a timeout.
func timeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, `{"error":{"code":"TIMEOUT","message":"request timeout"}}`)
	}
}
