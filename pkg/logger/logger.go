package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var Log zerolog.Logger

// Init configures the global logger. Dev mode writes human-readable console
// output; otherwise plain JSON. LOG_LEVEL overrides the default info level.
func Init(isDev bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	var out zerolog.Logger
	if isDev {
		out = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	} else {
		out = zerolog.New(os.Stdout)
	}

	Log = out.Level(level()).With().Timestamp().Str("service", "cinema-server").Logger()
}

func level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func IsDev() bool {
	env := os.Getenv("ENV")
	return env == "" || env == "dev" || env == "development"
}
