package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/ardnew/lrepl/alias"
	"github.com/ardnew/lrepl/lang"
	"github.com/ardnew/lrepl/log"
	"github.com/ardnew/lrepl/term"
)

// Session owns an alias environment and the normalizer evaluating terms
// against it.
//
// A Session is not safe for concurrent use. Terms it returns are immutable
// and may be normalized concurrently with further use of the Session.
type Session struct {
	subst  term.Substitution
	norm   term.Normalizer
	env    *alias.Environment
	logger log.Logger
}

// Option configures a [Session].
type Option func(*Session)

// WithLogger sets the logger used by the session and its components.
func WithLogger(logger log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithFresh sets the strategy choosing new names during alpha conversion.
func WithFresh(fresh term.Fresh) Option {
	return func(s *Session) {
		s.subst = term.CaptureAvoiding{Fresh: fresh}
		s.norm.Fresh = fresh
	}
}

// WithStepLimit bounds the number of conversions of every evaluation. Zero
// means no bound.
func WithStepLimit(limit int) Option {
	return func(s *Session) { s.norm.Limit = limit }
}

// New returns a [Session] with no aliases.
func New(opts ...Option) *Session {
	s := &Session{subst: term.CaptureAvoiding{}}

	for _, opt := range opts {
		opt(s)
	}

	s.norm.Logger = s.logger
	s.env = alias.New(s.subst, alias.WithLogger(s.logger))

	return s
}

// Normalizer returns the normalizer used by [Session.Evaluate] and
// [Session.Trace].
func (s *Session) Normalizer() term.Normalizer { return s.norm }

// Environment returns the alias environment.
func (s *Session) Environment() *alias.Environment { return s.env }

// Parse parses text and resolves the current aliases into it.
func (s *Session) Parse(ctx context.Context, text string) (term.Term, error) {
	t, err := lang.Parse(ctx, text, lang.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	return s.env.Apply(t), nil
}

// Evaluate parses text and returns its normal form.
func (s *Session) Evaluate(ctx context.Context, text string) (term.Term, error) {
	t, err := s.Parse(ctx, text)
	if err != nil {
		return nil, err
	}

	return s.norm.Normalize(ctx, t)
}

// Trace parses text and returns the conversions reducing it to normal form.
// Parse errors are returned before any conversion is performed.
func (s *Session) Trace(
	ctx context.Context,
	text string,
) (iter.Seq2[term.Step, error], error) {
	t, err := s.Parse(ctx, text)
	if err != nil {
		return nil, err
	}

	return s.norm.Steps(ctx, t), nil
}

// SetAlias parses text and stores it under name. Nothing is stored if text
// fails to parse.
func (s *Session) SetAlias(
	ctx context.Context,
	name, text string,
) (term.Term, error) {
	t, err := lang.Parse(ctx, text, lang.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	return s.env.Set(name, t), nil
}

// Aliases returns the aliases in definition order.
func (s *Session) Aliases() []alias.Entry { return s.env.Entries() }

// ClearAlias removes the alias name.
func (s *Session) ClearAlias(name string) error { return s.env.Delete(name) }

// ClearAliases removes every alias.
func (s *Session) ClearAliases() { s.env.Clear() }

// maxLineSize bounds the length of one script line.
const maxLineSize = 16 << 20

// Load executes every line read from r with [Session.Exec], writing output
// to w. Blank lines and lines starting with '#' are skipped. Loading stops at
// the first failing line or at an exit command.
func (s *Session) Load(ctx context.Context, r io.Reader, w io.Writer) error {
	return s.load(ctx, r, w, s.Exec)
}

func (s *Session) load(
	ctx context.Context,
	r io.Reader,
	w io.Writer,
	exec func(context.Context, string, io.Writer) (bool, error),
) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, maxLineSize)

	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		quit, err := exec(ctx, line, w)
		if err != nil {
			s.logger.DebugContext(ctx, "load failed",
				slog.Int("line", n),
				slog.Any("error", err),
			)

			return fmt.Errorf("line %d: %w", n, err)
		}

		if quit {
			return nil
		}
	}

	return scanner.Err()
}
