package lang

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Predefined errors (sentinel values).
var (
	ErrSyntax      = NewError("syntax error")
	ErrUnknownNode = NewError("unknown node")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from with
// [Error.Wrap] or [Error.With].
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && len(t.attrs) == 0 && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: append(slices.Clip(e.attrs), attrs...),
	}
}

// SyntaxError reports an unexpected token. It matches [ErrSyntax].
type SyntaxError struct {
	Token    Token  // offending token
	Expected []Kind // kinds acceptable in place of Token
	Source   string // source text containing Token
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	var sb strings.Builder

	sb.WriteString(ErrSyntax.msg)
	sb.WriteString(" at column ")
	sb.WriteString(strconv.Itoa(e.Token.Pos.Column))
	sb.WriteString(": unexpected ")
	sb.WriteString(e.Token.String())

	if len(e.Expected) > 0 {
		sb.WriteString(", expected ")
		sb.WriteString(e.expected())
	}

	return sb.String()
}

// Is matches [ErrSyntax].
func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// LogValue implements slog.LogValuer.
func (e *SyntaxError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrSyntax.msg),
		slog.String("token", e.Token.String()),
		slog.Int("column", e.Token.Pos.Column),
		slog.String("expected", e.expected()),
	)
}

func (e *SyntaxError) expected() string {
	names := make([]string, len(e.Expected))

	for i, k := range e.Expected {
		names[i] = k.String()
		if k != EOF {
			names[i] = strconv.Quote(names[i])
		}
	}

	return strings.Join(names, ", ")
}

// Snippet renders the source line with a caret run beneath the offending
// token:
//
//	a b c.
//	     ^
func (e *SyntaxError) Snippet() string {
	line, _, _ := strings.Cut(e.Source, "\n")
	line, _, _ = strings.Cut(line, "\r")

	off := min(e.Token.Pos.Offset, len(line))

	var sb strings.Builder

	sb.WriteString(line)
	sb.WriteByte('\n')

	// Keep tabs so the caret lines up with the token.
	for _, r := range line[:off] {
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}

	sb.WriteString(strings.Repeat("^", max(e.Token.Pos.Width, 1)))
	sb.WriteByte('\n')

	return sb.String()
}

// runeWidth returns the number of runes in s.
func runeWidth(s string) int { return utf8.RuneCountInString(s) }
