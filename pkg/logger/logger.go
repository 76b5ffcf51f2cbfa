package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON logger tagged with the service name. APP_ENV=development
// lowers the level to debug.
func New(service, env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "development" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("service", service)
}
