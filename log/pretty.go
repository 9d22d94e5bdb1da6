package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// ANSI escape sequences.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyHandler holds the state shared by the pretty text and JSON handlers.
type prettyHandler struct {
	opts  slog.HandlerOptions
	mu    *sync.Mutex
	w     io.Writer
	attrs []slog.Attr
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// fields returns the attributes of r in output order, passed through
// ReplaceAttr: time, level, source, message, then the record attributes.
func (h *prettyHandler) fields(r slog.Record) []slog.Attr {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		fields = append(fields, slog.Time(slog.TimeKey, r.Time))
	}

	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = append(fields, a)

		return true
	})

	if h.opts.ReplaceAttr == nil {
		return fields
	}

	out := fields[:0]

	for _, a := range fields {
		if a = h.opts.ReplaceAttr(nil, a); !a.Equal(slog.Attr{}) {
			out = append(out, a)
		}
	}

	return out
}

func (h *prettyHandler) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) withAttrs(attrs []slog.Attr) *prettyHandler {
	return &prettyHandler{
		opts:  h.opts,
		mu:    h.mu,
		w:     h.w,
		attrs: append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
	}
}

// prettyTextHandler writes one colorized key=value line per record.
type prettyTextHandler struct{ *prettyHandler }

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return prettyTextHandler{&prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w}}
}

func (h prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(colorGray + a.Key + colorReset + "=")
		writeValue(&buf, a.Value.Resolve())
	}

	return h.write(&buf)
}

func (h prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return prettyTextHandler{h.withAttrs(attrs)}
}

func (h prettyTextHandler) WithGroup(string) slog.Handler { return h }

// prettyJSONHandler writes one indented, colorized object per record.
type prettyJSONHandler struct{ *prettyHandler }

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return prettyJSONHandler{&prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w}}
}

func (h prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteString("{")

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString("\n  " + colorGray + a.Key + colorReset + ": ")
		writeValue(&buf, a.Value.Resolve())
	}

	buf.WriteString("\n}")

	return h.write(&buf)
}

func (h prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return prettyJSONHandler{h.withAttrs(attrs)}
}

func (h prettyJSONHandler) WithGroup(string) slog.Handler { return h }

// writeValue writes v colored by kind.
func writeValue(buf *bytes.Buffer, v slog.Value) {
	color, text := colorCyan, ""

	switch v.Kind() {
	case slog.KindInt64:
		color, text = colorYellow, strconv.FormatInt(v.Int64(), 10)

	case slog.KindUint64:
		color, text = colorYellow, strconv.FormatUint(v.Uint64(), 10)

	case slog.KindFloat64:
		color, text = colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64)

	case slog.KindBool:
		color, text = colorRed, "false"
		if v.Bool() {
			color, text = colorGreen, "true"
		}

	case slog.KindDuration:
		color, text = colorMagenta, v.Duration().String()

	case slog.KindTime:
		color, text = colorBlue, v.Time().Format(time.RFC3339)

	case slog.KindGroup:
		var group bytes.Buffer

		group.WriteByte('{')

		for i, a := range v.Group() {
			if i > 0 {
				group.WriteString(", ")
			}

			group.WriteString(a.Key + "=" + a.Value.Resolve().String())
		}

		group.WriteByte('}')

		text = group.String()

	default:
		text = v.String()
	}

	buf.WriteString(color + text + colorReset)
}
