package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/lrepl/lang"
	"github.com/ardnew/lrepl/term"
)

// Fmt parses a term and prints it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format in canonical syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as parse tree."`
}

// TermArgs are the arguments shared by the fmt subcommands.
type TermArgs struct {
	Resolve bool     `help:"Substitute aliases defined by the source scripts" short:"r"`
	Term    []string `arg:""                                                  help:"Term to format, joined with spaces" name:"term"`
}

func (a TermArgs) text() string { return strings.Join(a.Term, " ") }

// parse returns the parsed term, with aliases substituted if requested.
func (a TermArgs) parse(ctx context.Context, format string) (term.Term, error) {
	s, err := prepare(ctx)
	if err != nil {
		return nil, err
	}

	var t term.Term
	if a.Resolve {
		t, err = s.Parse(ctx, a.text())
	} else {
		t, err = lang.Parse(ctx, a.text())
	}

	if err != nil {
		return nil, ErrFormat.
			With(slog.String("format", format)).
			Wrap(err)
	}

	return t, nil
}

// Native formats a term in canonical syntax.
type Native struct {
	TermArgs `embed:""`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	t, err := f.parse(ctx, "native")
	if err != nil {
		return err
	}

	return lang.Format(outputFrom(ctx), t)
}

// JSON formats the tree encoding of a term as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output, 0 for compact" short:"i"`

	TermArgs `embed:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	t, err := j.parse(ctx, "json")
	if err != nil {
		return err
	}

	if err := lang.FormatJSON(outputFrom(ctx), t, j.Indent); err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	return nil
}

// YAML formats the tree encoding of a term as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output, 0 for flow style" short:"i"`

	TermArgs `embed:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	t, err := y.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	if err := lang.FormatYAML(ctx, outputFrom(ctx), t, y.Indent); err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	return nil
}

// AST prints the parse tree of a term, before aliases or desugaring.
type AST struct {
	Indent int `default:"2" help:"Indent width per tree level" short:"i"`

	Term []string `arg:"" help:"Term to format, joined with spaces" name:"term"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text := strings.Join(a.Term, " ")

	node, err := lang.ParseTree(ctx, text)
	if err != nil {
		return ErrFormat.
			With(slog.String("format", "ast")).
			Wrap(err)
	}

	return lang.FormatTree(outputFrom(ctx), node, a.Indent)
}
