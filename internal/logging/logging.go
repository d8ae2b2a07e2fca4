package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup configura el logger global del proceso. Devuelve el logger raíz;
// cada componente deriva el suyo con .With().Str("component", ...).
func Setup(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	logger := zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	return logger
}
