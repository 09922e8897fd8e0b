// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup builds the logger for the given environment, installs it as the slog
// default and routes the standard library logger through it.
//
// Production writes JSON with an RFC3339Nano UTC "ts" key. Anything else gets
// tint's coloured output. An empty level means info in production and debug
// elsewhere.
func Setup(w io.Writer, isProduction bool, level string) *slog.Logger {
	if level == "" {
		if isProduction {
			level = "info"
		} else {
			level = "debug"
		}
	}

	logger := slog.New(newHandler(w, isProduction, ParseLevel(level)))
	slog.SetDefault(logger)

	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(logger.Handler(), slog.LevelInfo).Writer())

	return logger
}

func newHandler(w io.Writer, isProduction bool, level slog.Level) slog.Handler {
	if isProduction {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.String("ts", a.Value.Time().UTC().Format(time.RFC3339Nano))
				}
				return a
			},
		})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		AddSource:  true,
		TimeFormat: "15:04:05.000",
	})
}

// ParseLevel maps a LOG_LEVEL value to a slog level. Unknown values are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
