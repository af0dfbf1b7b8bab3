package logger

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

// Init настраивает глобальный логгер: текст с debug-уровнем в development, JSON в остальных окружениях
func Init(env string) {
	SetOutput(env, os.Stdout)
}

// SetOutput - как Init, но с произвольным writer
func SetOutput(env string, w io.Writer) {
	l := slog.New(newHandler(env, w))
	current.Store(l)
	slog.SetDefault(l)
}

func newHandler(env string, w io.Writer) slog.Handler {
	if env == "development" {
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug, AddSource: true})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo, AddSource: true})
}

// L возвращает глобальный логгер, до Init - slog.Default()
func L() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return slog.Default()
}

func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }

// Fatal пишет ошибку и завершает процесс с кодом 1
func Fatal(msg string, args ...any) {
	L().Error(msg, args...)
	os.Exit(1)
}

// WorkerLog - одна строка на выполненную задачу фонового воркера
func WorkerLog(worker, task string, err error, args ...any) {
	attrs := append([]any{slog.String("worker", worker), slog.String("task", task)}, args...)
	if err != nil {
		L().Error("Worker task failed", append(attrs, slog.Any("error", err))...)
		return
	}
	L().Info("Worker task done", attrs...)
}
