package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide structured logger. JSON everywhere except
// dev, where a text handler at debug level is easier on human eyes.
func NewLogger(env string) *slog.Logger {
	if env == "dev" {
		handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})

		return slog.New(NewTraceHandler(handler))
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	// trace/span ids ride along when a span is active
	return slog.New(NewTraceHandler(handler))
}
