package term

//go:generate go tool stringer --linecomment --type Conversion --output conversion_string.go

import (
	"context"
	"errors"
	"iter"
	"log/slog"

	"github.com/ardnew/lrepl/log"
)

// ErrStepLimit is reported by [Normalizer.Steps] when the configured step
// limit is reached before a normal form.
var ErrStepLimit = errors.New("step limit reached")

// Conversion identifies the kind of rewrite performed by a [Step].
type Conversion int

const (
	Alpha Conversion = iota // α
	Beta                    // β
)

// Step is one rewrite of a normalization: the conversion applied and the
// whole term that resulted from it.
type Step struct {
	Conversion Conversion
	Term       Term
}

// Normalizer reduces terms to beta normal form in normal order, contracting
// the leftmost-outermost redex first.
type Normalizer struct {
	// Fresh picks new binder names during alpha conversion. Nil means
	// [Counting].
	Fresh Fresh

	// Limit bounds the number of steps of a single normalization. Zero means
	// no bound.
	Limit int

	// Logger receives a trace record for every step.
	Logger log.Logger
}

// Steps returns the sequence of rewrites reducing t to normal form.
//
// A beta step is preceded by an alpha step whenever the redex must be renamed
// to avoid capture. The sequence is empty if t is already in normal form.
//
// Normalization diverges for some terms. The sequence stops with ctx.Err()
// once ctx is done, and with [ErrStepLimit] once Limit steps were yielded.
func (n Normalizer) Steps(ctx context.Context, t Term) iter.Seq2[Step, error] {
	return func(yield func(Step, error) bool) {
		fresh := CaptureAvoiding{Fresh: n.Fresh}.fresh()
		count := 0

		for {
			if err := ctx.Err(); err != nil {
				yield(Step{}, err)

				return
			}

			r, ok := contract(t, fresh)
			if !ok {
				return
			}

			if r.renamed != nil {
				if !n.emit(ctx, yield, Step{Alpha, r.renamed}, &count) {
					return
				}
			}

			t = r.reduced

			if !n.emit(ctx, yield, Step{Beta, t}, &count) {
				return
			}
		}
	}
}

func (n Normalizer) emit(
	ctx context.Context,
	yield func(Step, error) bool,
	step Step,
	count *int,
) bool {
	if n.Limit > 0 && *count >= n.Limit {
		yield(Step{}, ErrStepLimit)

		return false
	}

	*count++

	n.Logger.TraceContext(ctx, "normalize step",
		slog.String("conversion", step.Conversion.String()),
		slog.Int("step", *count),
	)

	return yield(step, nil)
}

// Normalize reduces t to normal form and returns it, discarding the
// intermediate steps.
func (n Normalizer) Normalize(ctx context.Context, t Term) (Term, error) {
	for step, err := range n.Steps(ctx, t) {
		if err != nil {
			return nil, err
		}

		t = step.Term
	}

	return t, nil
}

// redex holds the result of contracting a single redex within a term.
type redex struct {
	renamed Term // whole term after alpha conversion, nil if none was needed
	reduced Term // whole term after beta reduction
}

// contract finds the leftmost-outermost redex of t and contracts it. It
// reports false if t is in normal form.
func contract(t Term, fresh Fresh) (redex, bool) {
	switch t := t.(type) {
	case Variable:
		return redex{}, false

	case Abstraction:
		r, ok := contract(t.Body, fresh)
		if !ok {
			return r, false
		}

		return r.wrap(func(body Term) Term {
			return Abstraction{Param: t.Param, Body: body}
		}), true

	case Application:
		if abs, ok := t.Func.(Abstraction); ok {
			body := Rename(abs.Body, abs.Param, FreeVariables(t.Arg), fresh)

			var r redex
			if body != abs.Body {
				r.renamed = Application{
					Func: Abstraction{Param: abs.Param, Body: body},
					Arg:  t.Arg,
				}
			}

			r.reduced = replace(body, abs.Param, t.Arg)

			return r, true
		}

		if r, ok := contract(t.Func, fresh); ok {
			return r.wrap(func(fn Term) Term {
				return Application{Func: fn, Arg: t.Arg}
			}), true
		}

		if r, ok := contract(t.Arg, fresh); ok {
			return r.wrap(func(arg Term) Term {
				return Application{Func: t.Func, Arg: arg}
			}), true
		}
	}

	return redex{}, false
}

// wrap rebuilds the enclosing term around both results of r.
func (r redex) wrap(outer func(Term) Term) redex {
	if r.renamed != nil {
		r.renamed = outer(r.renamed)
	}

	r.reduced = outer(r.reduced)

	return r
}
