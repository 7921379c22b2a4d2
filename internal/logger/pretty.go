package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// Keys lifted out of the attribute list into the record tag.  Every run
// carries an id and a seed, and they are what a reader scans for first.
var tagKeys = [...]string{"run", "seed"}

// sampleHead is how many leading values of a []float64 are printed before
// the summary.
const sampleHead = 3

// PrettyHandler is a slog.Handler for terminals.  Each record is one line:
//
//	15:04:05.000 INFO  [run=run_ab12 seed=7] message key=value ...
//
// Top-level "run" and "seed" attributes become the bracketed tag, and
// []float64 values are summarised as their first few samples plus length
// and range instead of being dumped whole.
type PrettyHandler struct {
	opts  slog.HandlerOptions
	w     io.Writer
	mu    *sync.Mutex
	group string
	tag   [len(tagKeys)]slog.Value
	attrs []slog.Attr
}

// NewPrettyHandler creates a new PrettyHandler.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{opts: *opts, w: w, mu: new(sync.Mutex)}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}
	return level >= threshold
}

// Handle formats and writes a log record.
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	tag := h.tag
	rest := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		if h.group == "" {
			if i := tagIndex(a.Key); i >= 0 {
				tag[i] = a.Value
				return true
			}
		}
		rest = append(rest, a)
		return true
	})

	buf := make([]byte, 0, 256)
	if !r.Time.IsZero() {
		buf = append(buf, colorGray...)
		buf = r.Time.AppendFormat(buf, "15:04:05.000")
		buf = append(buf, colorReset...)
		buf = append(buf, ' ')
	}

	label, color := levelStyle(r.Level)
	buf = append(buf, color...)
	buf = append(buf, colorBold...)
	buf = append(buf, label...)
	buf = append(buf, colorReset...)
	buf = append(buf, ' ')

	buf = appendTag(buf, tag)
	buf = append(buf, r.Message...)

	if len(h.attrs)+len(rest) > 0 {
		buf = append(buf, colorCyan...)
		for _, a := range h.attrs {
			buf = append(buf, ' ')
			buf = appendAttr(buf, a, "")
		}
		for _, a := range rest {
			buf = append(buf, ' ')
			buf = appendAttr(buf, a, h.group)
		}
		buf = append(buf, colorReset...)
	}
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

// WithAttrs returns a new handler with additional attributes.  Attributes
// added outside any group may fill the run/seed tag.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, a := range attrs {
		if h.group == "" {
			if i := tagIndex(a.Key); i >= 0 {
				next.tag[i] = a.Value
				continue
			}
		}
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return next
}

// WithGroup returns a new handler whose record attributes are prefixed
// with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	if h.group != "" {
		name = h.group + "." + name
	}
	next.group = name
	return next
}

func (h *PrettyHandler) clone() *PrettyHandler {
	next := *h
	next.attrs = append([]slog.Attr(nil), h.attrs...)
	return &next
}

func tagIndex(key string) int {
	for i, k := range tagKeys {
		if k == key {
			return i
		}
	}
	return -1
}

func appendTag(buf []byte, tag [len(tagKeys)]slog.Value) []byte {
	open := false
	for i, v := range tag {
		if v.Kind() == slog.KindAny && v.Any() == nil {
			continue
		}
		if open {
			buf = append(buf, ' ')
		} else {
			buf = append(buf, '[')
			open = true
		}
		buf = appendAttr(buf, slog.Attr{Key: tagKeys[i], Value: v}, "")
	}
	if open {
		buf = append(buf, "] "...)
	}
	return buf
}

func levelStyle(level slog.Level) (string, string) {
	switch {
	case level >= slog.LevelError:
		return "ERROR", colorRed
	case level >= slog.LevelWarn:
		return "WARN ", colorYellow
	case level >= slog.LevelInfo:
		return "INFO ", colorBlue
	default:
		return "DEBUG", colorGray
	}
}

func appendAttr(buf []byte, a slog.Attr, group string) []byte {
	if group != "" {
		buf = append(buf, group...)
		buf = append(buf, '.')
	}
	buf = append(buf, a.Key...)
	buf = append(buf, '=')
	return appendValue(buf, a.Value.Resolve())
}

func appendValue(buf []byte, v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindString:
		if s := v.String(); needsQuoting(s) {
			buf = strconv.AppendQuote(buf, s)
		} else {
			buf = append(buf, s...)
		}
	case slog.KindFloat64:
		buf = appendFloat(buf, v.Float64())
	case slog.KindDuration:
		buf = append(buf, v.Duration().String()...)
	case slog.KindTime:
		buf = v.Time().AppendFormat(buf, "15:04:05.000")
	case slog.KindGroup:
		buf = append(buf, '{')
		for i, a := range v.Group() {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = appendAttr(buf, a, "")
		}
		buf = append(buf, '}')
	case slog.KindAny:
		switch x := v.Any().(type) {
		case []float64:
			buf = appendSamples(buf, x)
		case error:
			buf = strconv.AppendQuote(buf, x.Error())
		default:
			buf = append(buf, fmt.Sprint(x)...)
		}
	default:
		buf = append(buf, v.String()...)
	}
	return buf
}

func appendFloat(buf []byte, f float64) []byte {
	return strconv.AppendFloat(buf, f, 'g', 6, 64)
}

// appendSamples writes a short signal as-is and a long one as its head
// followed by length and range:
//
//	[0.1 0.2]
//	[0.1 0.2 0.3 … n=100 min=-1 max=1]
func appendSamples(buf []byte, xs []float64) []byte {
	buf = append(buf, '[')
	for i, x := range xs {
		if i == sampleHead {
			break
		}
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = appendFloat(buf, x)
	}
	if len(xs) > sampleHead {
		lo, hi := xs[0], xs[0]
		for _, x := range xs[1:] {
			lo, hi = min(lo, x), max(hi, x)
		}
		buf = append(buf, " … n="...)
		buf = strconv.AppendInt(buf, int64(len(xs)), 10)
		buf = append(buf, " min="...)
		buf = appendFloat(buf, lo)
		buf = append(buf, " max="...)
		buf = appendFloat(buf, hi)
	}
	return append(buf, ']')
}

func needsQuoting(s string) bool {
	for _, c := range s {
		if c == ' ' || c == '\t' || c == '\n' || c == '"' || c == '=' {
			return true
		}
	}
	return false
}
