package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/lrepl/lang"
	"github.com/ardnew/lrepl/session"
)

// Eval prints the normal form of a term.
type Eval struct {
	Term []string `arg:"" help:"Term to evaluate, joined with spaces" name:"term"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := prepare(ctx)
	if err != nil {
		return err
	}

	text := strings.Join(e.Term, " ")

	t, err := s.Evaluate(ctx, text)
	if err != nil {
		return ErrEvaluate.
			With(slog.String("command", "eval"), slog.String("term", text)).
			Wrap(err)
	}

	return lang.Format(outputFrom(ctx), t)
}

// Trace prints each conversion that reduces a term to normal form.
type Trace struct {
	Term []string `arg:"" help:"Term to reduce, joined with spaces" name:"term"`
}

// Run executes the trace command.
func (r *Trace) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := prepare(ctx)
	if err != nil {
		return err
	}

	text := strings.Join(r.Term, " ")

	steps, err := s.Trace(ctx, text)
	if err != nil {
		return ErrEvaluate.
			With(slog.String("command", "trace"), slog.String("term", text)).
			Wrap(err)
	}

	w := outputFrom(ctx)

	for step, err := range steps {
		if err != nil {
			return ErrEvaluate.
				With(slog.String("command", "trace"), slog.String("term", text)).
				Wrap(err)
		}

		if err := session.WriteStep(w, step); err != nil {
			return err
		}
	}

	return nil
}
