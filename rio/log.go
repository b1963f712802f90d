package rio

import (
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var logger atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Str("component", "rio").Logger()
	logger.Store(&l)
}

// Logger returns the package logger.
func Logger() *zerolog.Logger { return logger.Load() }

// SetLogger replaces the package logger.
func SetLogger(l zerolog.Logger) {
	logger.Store(&l)
}
