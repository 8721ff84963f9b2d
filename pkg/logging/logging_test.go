package logging

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	return slog.New(NewCompactHandler(buf, &slog.HandlerOptions{Level: level}))
}

func TestCompactHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, slog.LevelInfo)

	log.Info("traversal finished", "goal", "J", "steps", 9, "path", []string{"A", "B", "J"})

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "[INFO]  "), line)
	assert.Contains(t, line, "traversal finished | goal=J steps=9 path=[A B J]")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestCompactHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, slog.LevelWarn)

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[WARN]  ")
}

func TestCompactHandlerWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, slog.LevelDebug).With("graph", "classroom").WithGroup("bfs")

	log.Debug("expand", "node", "A")

	line := buf.String()
	assert.Contains(t, line, "[DEBUG] ")
	assert.Contains(t, line, "expand | graph=classroom bfs.node=A")
}

func TestCompactHandlerSpecialKeys(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, slog.LevelInfo)

	log.Info("done",
		"requestID", "0123456789abcdef",
		"durationMs", int64(12),
		"note", "two words",
		"error", assert.AnError,
	)

	line := buf.String()
	assert.Contains(t, line, "req=01234567")
	assert.Contains(t, line, "duration=12ms")
	assert.Contains(t, line, `note="two words"`)
	assert.Contains(t, line, `error="assert.AnError general error for testing"`)
}

func TestTraceLevelTag(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, LevelTrace)

	log.Log(t.Context(), LevelTrace, "step")

	assert.True(t, strings.HasPrefix(buf.String(), "[TRACE] "))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"info", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", LevelTrace, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupRejectsUnknownFormat(t *testing.T) {
	assert.Error(t, Setup(&bytes.Buffer{}, slog.LevelInfo, "xml"))
}

func TestTraceContextHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() { _ = Setup(os.Stdout, slog.LevelInfo, FormatCompact) })
	ctx := WithRequestID(t.Context(), "0123456789abcdef")

	require.NoError(t, Setup(&buf, slog.LevelDebug, FormatCompact))
	TraceContext(ctx, "traversal step", "step", 1)
	assert.Empty(t, buf.String())

	require.NoError(t, Setup(&buf, LevelTrace, FormatCompact))
	TraceContext(ctx, "traversal step", "step", 1)

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "[TRACE] "), line)
	assert.Contains(t, line, "req=01234567")
	assert.Contains(t, line, "step=1")
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/graph-info", nil))

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/graph-info", nil)
		req.Header.Set("X-Request-ID", "fixed-id")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "fixed-id", seen)
		assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
	})
}
