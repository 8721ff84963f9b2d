package logging

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDMiddleware tags each HTTP request with an ID and logs its outcome.
// An incoming X-Request-ID header is reused.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set("X-Request-ID", requestID)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		start := time.Now()
		DebugContext(ctx, "request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remoteAddr", r.RemoteAddr,
		)

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		switch {
		case wrapped.statusCode >= 500:
			ErrorContext(ctx, "request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"durationMs", duration.Milliseconds(),
			)
		case wrapped.statusCode >= 400:
			WarnContext(ctx, "request rejected",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"durationMs", duration.Milliseconds(),
			)
		default:
			InfoContext(ctx, "request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"durationMs", duration.Milliseconds(),
			)
		}
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush implements http.Flusher for SSE support
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
