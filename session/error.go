package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/lrepl/alias"
	"github.com/ardnew/lrepl/lang"
)

// Sentinel errors.
var (
	ErrUnknownCommand    = NewError("unknown command")
	ErrMissingAliasValue = NewError("invalid command: missing alias value")
	ErrMissingAliasName  = NewError("invalid command: missing alias name")
)

// Error is a session error carrying structured logging attributes.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError returns a sentinel error with the given message.
func NewError(msg string) *Error { return &Error{msg: msg} }

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

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && len(t.attrs) == 0 && t.msg == e.msg
}

// LogValue implements slog.LogValuer.
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

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: append(slices.Clip(e.attrs), attrs...),
	}
}

// WriteError renders err for the user. Syntax errors include a snippet of
// the offending input.
func WriteError(w io.Writer, err error) error {
	var (
		se *lang.SyntaxError
		nf *alias.NotFoundError
	)

	switch {
	case errors.As(err, &se):
		_, err = fmt.Fprintf(w, "Error while parsing: %v\n%s", se, se.Snippet())
	case errors.As(err, &nf):
		_, err = fmt.Fprintf(w, "Error: %v\n", nf)
	default:
		_, err = fmt.Fprintf(w, "Error: %v\n", err)
	}

	return err
}
