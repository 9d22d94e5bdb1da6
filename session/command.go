package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/lrepl/lang"
	"github.com/ardnew/lrepl/term"
)

// Command describes a command accepted by [Session.Exec].
type Command struct {
	Name  string
	Usage string
	Help  string

	run func(s *Session, ctx context.Context, arg string, w io.Writer) (quit bool, err error)
}

// commands is assigned in init because help refers to it.
var commands []Command

func init() {
	commands = []Command{
		{"evaluate", "evaluate TERM", "evaluate a lambda term", (*Session).execEvaluate},
		{"eval", "eval TERM", "evaluate a lambda term", (*Session).execEvaluate},
		{"trace", "trace TERM", "trace the evaluation of a lambda term", (*Session).execTrace},
		{"alias", "alias NAME = TERM", "define an alias for a lambda term", (*Session).execAlias},
		{"aliases", "aliases", "list defined aliases", (*Session).execAliases},
		{"clear", "clear [NAME]", "clear all aliases or a specific one", (*Session).execClear},
		{"help", "help", "list commands", (*Session).execHelp},
		{"exit", "exit", "exit the repl", (*Session).execExit},
		{"quit", "quit", "exit the repl", (*Session).execExit},
		{"EOF", "EOF", "exit the repl", (*Session).execExit},
	}
}

// Commands returns the commands accepted by [Session.Exec].
func Commands() []Command {
	out := make([]Command, len(commands))
	copy(out, commands)

	return out
}

func lookup(name string) (Command, bool) {
	for _, c := range commands {
		if c.Name == name {
			return c, true
		}
	}

	return Command{}, false
}

// Exec runs one command line, writing its output to w. It reports quit when
// the command ends the session. Empty lines do nothing.
func (s *Session) Exec(
	ctx context.Context,
	line string,
	w io.Writer,
) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}

	name, arg := splitCommand(line)

	cmd, ok := lookup(name)
	if !ok {
		return false, ErrUnknownCommand.
			Wrap(errors.New(line)).
			With(slog.String("command", name))
	}

	s.logger.DebugContext(ctx, "exec",
		slog.String("command", cmd.Name),
		slog.String("arg", arg),
	)

	return cmd.run(s, ctx, arg, w)
}

// restore runs line like [Session.Exec], except that an alias command stores
// its term as written without resolving the current aliases into it.
func (s *Session) restore(
	ctx context.Context,
	line string,
	w io.Writer,
) (bool, error) {
	name, arg := splitCommand(strings.TrimSpace(line))
	if name != "alias" {
		return s.Exec(ctx, line, w)
	}

	name, value, err := splitAlias(arg)
	if err != nil {
		return false, err
	}

	t, err := lang.Parse(ctx, value, lang.WithLogger(s.logger))
	if err != nil {
		return false, err
	}

	s.env.Restore(name, t)

	return false, nil
}

// splitCommand splits line at its first blank into a command name and its
// trimmed argument.
func splitCommand(line string) (name, arg string) {
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		return line[:i], strings.TrimSpace(line[i+1:])
	}

	return line, ""
}

func splitAlias(arg string) (name, value string, err error) {
	name, value, ok := strings.Cut(arg, "=")
	if !ok {
		return "", "", ErrMissingAliasValue
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", ErrMissingAliasName
	}

	return name, value, nil
}

func (s *Session) execEvaluate(
	ctx context.Context,
	arg string,
	w io.Writer,
) (bool, error) {
	t, err := s.Evaluate(ctx, arg)
	if err != nil {
		return false, err
	}

	_, err = fmt.Fprintln(w, t)

	return false, err
}

func (s *Session) execTrace(
	ctx context.Context,
	arg string,
	w io.Writer,
) (bool, error) {
	steps, err := s.Trace(ctx, arg)
	if err != nil {
		return false, err
	}

	for step, err := range steps {
		if err != nil {
			return false, err
		}

		if err := WriteStep(w, step); err != nil {
			return false, err
		}
	}

	return false, nil
}

// WriteStep writes step as its conversion symbol followed by the term.
func WriteStep(w io.Writer, step term.Step) error {
	_, err := fmt.Fprintf(w, "%s %s\n", step.Conversion, step.Term)

	return err
}

func (s *Session) execAlias(
	ctx context.Context,
	arg string,
	_ io.Writer,
) (bool, error) {
	name, value, err := splitAlias(arg)
	if err != nil {
		return false, err
	}

	_, err = s.SetAlias(ctx, name, value)

	return false, err
}

func (s *Session) execAliases(
	_ context.Context,
	_ string,
	w io.Writer,
) (bool, error) {
	for name, t := range s.env.All() {
		if _, err := fmt.Fprintf(w, "%s = %s\n", name, t); err != nil {
			return false, err
		}
	}

	return false, nil
}

func (s *Session) execClear(
	_ context.Context,
	arg string,
	_ io.Writer,
) (bool, error) {
	if arg == "" {
		s.ClearAliases()

		return false, nil
	}

	return false, s.ClearAlias(arg)
}

func (s *Session) execHelp(
	_ context.Context,
	_ string,
	w io.Writer,
) (bool, error) {
	width := 0
	for _, c := range commands {
		width = max(width, len(c.Usage))
	}

	for _, c := range commands {
		if _, err := fmt.Fprintf(w, "  %-*s  %s\n", width, c.Usage, c.Help); err != nil {
			return false, err
		}
	}

	return false, nil
}

func (s *Session) execExit(
	_ context.Context,
	_ string,
	w io.Writer,
) (bool, error) {
	_, err := fmt.Fprintln(w, "Exiting REPL...")

	return true, err
}
