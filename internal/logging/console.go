package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const consoleTimeLayout = "2006-01-02 15:04:05"

// consoleHandler renders one line per record. The launch id, machine and
// component are lifted out of the attributes into fixed leading columns:
//
//	2026-10-18 09:12:44 INFO  [3b0c9f7e-...] session@alpha: viewer started pid=4242
//
// Every line of one launch therefore carries the same "[<session id>]" token.
type consoleHandler struct {
	out    *lockedWriter
	level  slog.Leveler
	source bool

	cols   columns
	prefix string
	preset []byte
}

type columns struct {
	session   string
	machine   string
	component string
}

// lift stores a top-level column attribute and reports whether it did.
func (c *columns) lift(a slog.Attr) bool {
	switch a.Key {
	case FieldSessionID:
		c.session = a.Value.String()
	case FieldMachine:
		c.machine = a.Value.String()
	case FieldComponent:
		c.component = a.Value.String()
	default:
		return false
	}
	return true
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func newConsoleHandler(w io.Writer, level slog.Leveler, source bool) slog.Handler {
	return &consoleHandler{out: &lockedWriter{w: w}, level: level, source: source}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	cols := h.cols
	fields := append([]byte(nil), h.preset...)
	r.Attrs(func(a slog.Attr) bool {
		fields = collectAttr(fields, &cols, h.prefix, a)
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	line := make([]byte, 0, 96+len(fields))
	line = ts.In(time.Local).AppendFormat(line, consoleTimeLayout)
	line = append(line, ' ')
	line = appendLevel(line, r.Level)
	if cols.session != "" {
		line = append(line, " ["...)
		line = append(line, cols.session...)
		line = append(line, ']')
	}
	line = append(line, ' ')
	switch {
	case cols.component != "" && cols.machine != "":
		line = append(line, cols.component...)
		line = append(line, '@')
		line = append(line, cols.machine...)
		line = append(line, ": "...)
	case cols.component != "":
		line = append(line, cols.component...)
		line = append(line, ": "...)
	case cols.machine != "":
		line = append(line, '@')
		line = append(line, cols.machine...)
		line = append(line, ": "...)
	}

	if msg := strings.TrimSpace(r.Message); msg != "" {
		line = append(line, msg...)
	} else {
		line = append(line, "(no message)"...)
	}
	if h.source {
		if src := r.Source(); src != nil && src.File != "" {
			line = append(line, " ("...)
			line = append(line, filepath.Base(src.File)...)
			line = append(line, ':')
			line = strconv.AppendInt(line, int64(src.Line), 10)
			line = append(line, ')')
		}
	}
	line = append(line, fields...)
	line = append(line, '\n')

	_, err := h.out.Write(line)
	return err
}

// WithAttrs resolves column attributes immediately and pre-renders the rest,
// so loggers derived once per launch pay nothing extra per record.
func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.preset = append([]byte(nil), h.preset...)
	for _, a := range attrs {
		next.preset = collectAttr(next.preset, &next.cols, h.prefix, a)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

// collectAttr appends a as " key=value" to dst, flattening groups into
// dotted keys. Ungrouped column attributes go to cols instead.
func collectAttr(dst []byte, cols *columns, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}
	if a.Value.Kind() == slog.KindGroup {
		inner := prefix
		if a.Key != "" {
			inner = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			dst = collectAttr(dst, cols, inner, ga)
		}
		return dst
	}
	if prefix == "" && cols.lift(a) {
		return dst
	}
	dst = append(dst, ' ')
	dst = append(dst, prefix...)
	dst = append(dst, a.Key...)
	dst = append(dst, '=')
	return appendValue(dst, a.Value)
}

func appendValue(dst []byte, v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindInt64:
		return strconv.AppendInt(dst, v.Int64(), 10)
	case slog.KindUint64:
		return strconv.AppendUint(dst, v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.AppendFloat(dst, v.Float64(), 'g', -1, 64)
	case slog.KindBool:
		return strconv.AppendBool(dst, v.Bool())
	case slog.KindTime:
		return v.Time().In(time.Local).AppendFormat(dst, consoleTimeLayout)
	}
	s := v.String()
	if s == "" || strings.IndexFunc(s, quotable) >= 0 {
		return strconv.AppendQuote(dst, s)
	}
	return append(dst, s...)
}

func quotable(r rune) bool {
	return r <= ' ' || r == '=' || r == '"' || r == 0x7f || r == utf8.RuneError
}

// appendLevel writes a five-character level column.
func appendLevel(dst []byte, level slog.Level) []byte {
	switch {
	case level >= slog.LevelError:
		return append(dst, "ERROR"...)
	case level >= slog.LevelWarn:
		return append(dst, "WARN "...)
	case level >= slog.LevelInfo:
		return append(dst, "INFO "...)
	default:
		return append(dst, "DEBUG"...)
	}
}
