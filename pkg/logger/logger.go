// Package logger envoltorio de zerolog compartido por la API, el worker y la CLI.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env     string // development: consola legible; resto: JSON
	Level   string // trace, debug, info, warn, error
	Service string // api, worker...
}

// Logger se inyecta en use cases, repositorios y handlers.
type Logger struct {
	zl zerolog.Logger
}

// New crea el logger del proceso y lo instala como logger global de zerolog.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}
	}
	l := FromWriter(w, cfg.Level)
	if cfg.Service != "" {
		l.zl = l.zl.With().Str("service", cfg.Service).Logger()
	}
	log.Logger = l.zl
	return l
}

// FromWriter logger JSON sobre un writer arbitrario. Nivel desconocido o vacío = info.
func FromWriter(w io.Writer, level string) *Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return &Logger{zl: zerolog.New(w).Level(lvl).With().Timestamp().Logger()}
}

// Nop descarta todo (tests y valores por defecto).
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Component hijo con el campo component fijo (invoices, liquidations, http...).
func (l *Logger) Component(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}

// Liquidation hijo con liquidation_id fijo, para trazar una liquidación entre API y worker.
func (l *Logger) Liquidation(id string) *Logger {
	return &Logger{zl: l.zl.With().Str("liquidation_id", id).Logger()}
}
