package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Logger interface {
	Debug(log ...any)
	Info(log ...any)
	Error(log ...any)
}

// PrefixedLogger writes structured lines tagged with the component that
// produced them.
type PrefixedLogger struct {
	Prefix string
	log    zerolog.Logger
}

func New(prefix string) PrefixedLogger {
	return NewWithWriter(prefix, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
}

func NewWithWriter(prefix string, w io.Writer) PrefixedLogger {
	return PrefixedLogger{
		Prefix: prefix,
		log:    zerolog.New(w).With().Timestamp().Str("module", prefix).Logger(),
	}
}

// Nop discards everything, used by tests.
func Nop() PrefixedLogger {
	return PrefixedLogger{log: zerolog.Nop()}
}

// SetLevel sets the global level. Unknown levels fall back to info.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func (pl PrefixedLogger) Debug(log ...any) {
	pl.log.Debug().Msg(format(log))
}

func (pl PrefixedLogger) Info(log ...any) {
	pl.log.Info().Msg(format(log))
}

func (pl PrefixedLogger) Error(log ...any) {
	pl.log.Error().Msg(format(log))
}

func format(log []any) string {
	return strings.TrimSuffix(fmt.Sprintln(log...), "\n")
}

var _ Logger = &PrefixedLogger{}
