// Package logger arma el logger estructurado del servicio sobre zerolog.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger. En development la salida es consola legible;
// cualquier otro entorno emite JSON por línea.
type Config struct {
	Env   string
	Level string
}

// Logger envuelve zerolog para poder inyectarlo como dependencia.
type Logger struct {
	zl zerolog.Logger
}

// New construye el logger del proceso y lo instala además como logger global
// de zerolog, para las librerías que escriben por esa vía.
func New(cfg Config) *Logger {
	zl := zerolog.New(output(cfg.Env)).
		Level(level(cfg.Level)).
		With().
		Timestamp().
		Logger()
	log.Logger = zl
	return &Logger{zl: zl}
}

func output(env string) io.Writer {
	if env == "development" {
		return zerolog.ConsoleWriter{Out: os.Stdout}
	}
	return os.Stdout
}

func level(s string) zerolog.Level {
	lv, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lv == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lv
}

func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With abre un sublogger con campos fijos.
func (l *Logger) With() zerolog.Context { return l.zl.With() }
