package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// CompactHandler writes one short line per record for console output.
// Format: [LEVEL] HH:MM:SS message | key=value key=value
type CompactHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	out    io.Writer
	attrs  []slog.Attr // pre-rendered with their group prefix
	prefix string      // dotted group path from WithGroup
}

// NewCompactHandler creates a new compact console handler
func NewCompactHandler(w io.Writer, opts *slog.HandlerOptions) *CompactHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &CompactHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		out:  w,
	}
}

func (h *CompactHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *CompactHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 1024)

	buf = append(buf, levelTag(r.Level)...)
	buf = append(buf, r.Time.Format("15:04:05")...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	sep := func() {
		if len(buf) > 0 && buf[len(buf)-1] != ' ' {
			buf = append(buf, ' ')
		}
	}

	first := true
	emit := func(a slog.Attr) {
		if first {
			buf = append(buf, " |"...)
			first = false
		}
		sep()
		buf = h.appendAttr(buf, a)
	}

	for _, a := range h.attrs {
		emit(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		a.Value = a.Value.Resolve()
		if a.Equal(slog.Attr{}) {
			return true
		}
		if h.prefix != "" {
			a.Key = h.prefix + "." + a.Key
		}
		emit(a)
		return true
	})

	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf)
	return err
}

func levelTag(l slog.Level) string {
	switch {
	case l < slog.LevelDebug:
		return "[TRACE] "
	case l == slog.LevelDebug:
		return "[DEBUG] "
	case l == slog.LevelInfo:
		return "[INFO]  "
	case l == slog.LevelWarn:
		return "[WARN]  "
	case l == slog.LevelError:
		return "[ERROR] "
	default:
		return fmt.Sprintf("[%-5s] ", l.String())
	}
}

func (h *CompactHandler) appendAttr(buf []byte, a slog.Attr) []byte {
	switch a.Key {
	case "requestID":
		// Request IDs are UUIDs; eight characters are enough to correlate lines.
		if s, ok := a.Value.Any().(string); ok && len(s) > 8 {
			buf = append(buf, "req="...)
			buf = append(buf, s[:8]...)
			return buf
		}
	case "durationMs":
		buf = append(buf, "duration="...)
		buf = append(buf, a.Value.String()...)
		buf = append(buf, "ms"...)
		return buf
	case "error":
		buf = append(buf, "error="...)
		buf = append(buf, fmt.Sprintf("%q", fmt.Sprint(a.Value.Any()))...)
		return buf
	}

	buf = append(buf, a.Key...)
	buf = append(buf, '=')

	v := a.Value
	switch v.Kind() {
	case slog.KindString:
		buf = appendString(buf, v.String())
	case slog.KindInt64:
		buf = append(buf, fmt.Sprintf("%d", v.Int64())...)
	case slog.KindUint64:
		buf = append(buf, fmt.Sprintf("%d", v.Uint64())...)
	case slog.KindFloat64:
		buf = append(buf, fmt.Sprintf("%g", v.Float64())...)
	case slog.KindBool:
		buf = append(buf, fmt.Sprintf("%t", v.Bool())...)
	case slog.KindDuration:
		buf = append(buf, v.Duration().String()...)
	case slog.KindTime:
		buf = append(buf, v.Time().Format(time.RFC3339)...)
	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, ga := range v.Group() {
			parts = append(parts, string(h.appendAttr(nil, ga)))
		}
		buf = append(buf, '{')
		buf = append(buf, strings.Join(parts, " ")...)
		buf = append(buf, '}')
	default:
		// Node lists and paths read better as [A B C] than as Go syntax.
		if ss, ok := v.Any().([]string); ok {
			buf = append(buf, '[')
			buf = append(buf, strings.Join(ss, " ")...)
			buf = append(buf, ']')
			break
		}
		buf = appendString(buf, fmt.Sprintf("%v", v.Any()))
	}

	return buf
}

func appendString(buf []byte, s string) []byte {
	if needsQuoting(s) {
		return append(buf, fmt.Sprintf("%q", s)...)
	}
	return append(buf, s...)
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsAny(s, " \t\n\"=")
}

func (h *CompactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, a := range attrs {
		a.Value = a.Value.Resolve()
		if h.prefix != "" {
			a.Key = h.prefix + "." + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return next
}

func (h *CompactHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	if next.prefix == "" {
		next.prefix = name
	} else {
		next.prefix = next.prefix + "." + name
	}
	return next
}

func (h *CompactHandler) clone() *CompactHandler {
	return &CompactHandler{
		opts:   h.opts,
		mu:     h.mu,
		out:    h.out,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		prefix: h.prefix,
	}
}
