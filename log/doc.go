// Package log provides a concurrency-safe structured logger built on
// [log/slog].
//
// Loggers are immutable values configured with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Info("expanded template",
//		slog.String("template", "[Room,1...5]"),
//		slog.Int("count", 5))
//
// Attributes are always passed as typed [slog.Attr] values.
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is used by the expansion engine
// for per-token diagnostics. Messages below the configured level are
// discarded before any formatting work is done.
//
// # Pretty output
//
// With [WithPretty] enabled (the default) records are colorized using
// lipgloss styles. Color is only emitted when the destination writer is a
// terminal that supports it.
//
// # Default logger
//
// The package-level functions ([Info], [DebugContext], …) write through a
// default logger on stderr that [Config] reconfigures in place.
package log
