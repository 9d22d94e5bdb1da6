package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"unicode/utf8"

	"github.com/chzyer/readline"

	"github.com/ardnew/lrepl/log"
	"github.com/ardnew/lrepl/session"
)

const intro = "Welcome to the Lambda REPL, type 'help' for help"

// lineReader is the part of *readline.Instance driven by the plain REPL.
type lineReader interface {
	Readline() (string, error)
	SaveHistory(content string) error
}

// RunPlain starts a line-oriented REPL over s reading commands from in. Each
// line is a session command such as "eval TERM" or "alias NAME = TERM".
// It suits terminals without full-screen support and piped input.
func RunPlain(
	ctx context.Context,
	s *session.Session,
	in io.ReadCloser,
	out io.Writer,
	cacheDir string,
	logger log.Logger,
) error {
	history := openHistory(ctx, cacheDir, logger)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 evalPrompt,
		InterruptPrompt:        "^C",
		EOFPrompt:              "EOF",
		Stdin:                  in,
		Stdout:                 out,
		AutoComplete:           completer{s},
		HistorySearchFold:      true,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for line := range history.Lines(modeCtrl) {
		_ = rl.SaveHistory(line)
	}

	logger.TraceContext(
		ctx,
		"plain repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("history", history.Len()),
	)

	fmt.Fprintln(out, intro)

	return loop(ctx, rl, s, out, history, logger)
}

// loop executes the lines of rd until an exit command, end of input, or an
// interrupt on an empty line.
func loop(
	ctx context.Context,
	rd lineReader,
	s *session.Session,
	w io.Writer,
	history *History,
	logger log.Logger,
) error {
	for {
		line, err := rd.Readline()

		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if line == "" {
				return nil
			}

			continue

		case errors.Is(err, io.EOF):
			line = "EOF"

		case err != nil:
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line != "EOF" {
			_ = rd.SaveHistory(line)

			if err := history.Add(line, modeCtrl); err != nil {
				logger.WarnContext(ctx, "could not save history",
					slog.Any("error", err),
				)
			}
		}

		quit, err := execInterruptible(ctx, s, line, w)
		if err != nil {
			if err := session.WriteError(w, err); err != nil {
				return err
			}
		}

		if quit {
			return nil
		}
	}
}

// execInterruptible runs line with a context canceled by SIGINT, so that
// Ctrl+C stops a diverging evaluation instead of the process.
func execInterruptible(
	ctx context.Context,
	s *session.Session,
	line string,
	w io.Writer,
) (bool, error) {
	evalCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	quit, err := s.Exec(evalCtx, line, w)
	if errors.Is(err, context.Canceled) && ctx.Err() == nil {
		err = ErrInterrupted
	}

	return quit, err
}

// completer completes command names in the first word of a line and alias
// names after it.
type completer struct {
	s *session.Session
}

// Do implements readline.AutoCompleter.
func (c completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	input := string(line[:pos])

	word, start, _ := wordBounds(input, len(input))

	var candidates []string

	switch {
	case isCommandWord(input, start):
		candidates = commandNames()
	case !boundName(input, start):
		candidates = c.s.Environment().Names()
	}

	for _, name := range candidates {
		if suffix, ok := strings.CutPrefix(name, word); ok {
			newLine = append(newLine, []rune(suffix))
		}
	}

	return newLine, utf8.RuneCountInString(word)
}
