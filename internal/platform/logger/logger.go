// Pacote logger mantém o slog JSON compartilhado pelos binários.
package logger

import (
	"log/slog"
	"os"
)

var (
	level         = new(slog.LevelVar)
	defaultLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
)

func L() *slog.Logger {
	return defaultLogger
}

// SetLevel vale também para loggers já derivados com With.
func SetLevel(l slog.Level) {
	level.Set(l)
}

func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

func Fatal(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
	os.Exit(1)
}
