package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/ardnew/lrepl/cli/cmd/repl"
	"github.com/ardnew/lrepl/log"
)

// Repl starts an interactive session.
type Repl struct {
	Plain bool `help:"Use a line editor instead of the full-screen interface" short:"P"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := prepare(ctx)
	if err != nil {
		return err
	}

	cacheDir := kongVar(ctx, CacheIdentifier)
	logger := log.Default()

	if r.Plain || !interactive() {
		logger.DebugContext(ctx, "start repl",
			slog.String("mode", "plain"),
			slog.String("cache", cacheDir),
		)

		return repl.RunPlain(ctx, s, os.Stdin, outputFrom(ctx), cacheDir, logger)
	}

	logger.DebugContext(ctx, "start repl",
		slog.String("mode", "tui"),
		slog.String("cache", cacheDir),
	)

	return repl.Run(ctx, s, cacheDir, logger)
}

// interactive reports whether both stdin and stdout are terminals.
func interactive() bool {
	return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
