// Package log provides the structured logger used throughout lrepl, built on
// [log/slog].
//
// A [Logger] is created with [Make] and configured with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText))
//	logger.Info("session started", slog.Int("aliases", 3))
//
// Package-level functions log through a default logger that the CLI
// reconfigures with [Config] as flags are parsed.
//
// In addition to the slog levels, [LevelTrace] sits below debug. The parser,
// alias environment, and normalizer log at trace level, so their records
// only appear with --log-level=trace.
//
// With pretty printing enabled (the default) records are colorized: text
// records render keys gray and values by kind, JSON records are indented.
package log
