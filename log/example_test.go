package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/lrepl/log"
)

func Example_basic() {
	logger := log.Make(os.Stdout)
	logger.Info("session started", slog.String("version", "0.1.0"))
}

func Example_configuration() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("Kitchen"),
		log.WithCaller(true))

	logger.Trace("normalize step", slog.String("conversion", "β"))
}

func Example_withContext() {
	logger := log.Make(os.Stdout).With(slog.String("component", "parser"))

	logger.DebugContext(context.Background(), "parse complete")
}
