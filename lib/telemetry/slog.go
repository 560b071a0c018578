package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default text logger, verbose enables debug
// logging (which also turns on http message dumps in lib/restyutil).
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
