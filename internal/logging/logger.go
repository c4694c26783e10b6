// Package logging owns the process-wide slog setup: JSON lines on
// stdout for everything, with ERROR and above additionally batched into
// the system_logs table by PGHandler.
package logging

import (
	"log/slog"
	"os"
)

// Setup installs a JSON stdout logger as the slog default. main swaps
// it for a MultiHandler once the database connection is up.
func Setup() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}
