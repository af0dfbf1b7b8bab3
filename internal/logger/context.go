package logger

import (
	"context"
	"log/slog"

	"archived_backend/pkg/contextkeys"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, contextkeys.UserIDKey, userID)
}

// FromContext добавляет к глобальному логгеру request_id и user_id из ctx
func FromContext(ctx context.Context) *slog.Logger {
	l := L()
	if ctx == nil {
		return l
	}
	if id, ok := ctx.Value(contextkeys.RequestIDKey).(string); ok && id != "" {
		l = l.With(slog.String("request_id", id))
	}
	if id, ok := ctx.Value(contextkeys.UserIDKey).(uint); ok && id != 0 {
		l = l.With(slog.Uint64("user_id", uint64(id)))
	}
	return l
}

func CtxDebug(ctx context.Context, msg string, args ...any) { FromContext(ctx).Debug(msg, args...) }
func CtxInfo(ctx context.Context, msg string, args ...any)  { FromContext(ctx).Info(msg, args...) }
func CtxWarn(ctx context.Context, msg string, args ...any)  { FromContext(ctx).Warn(msg, args...) }
func CtxError(ctx context.Context, msg string, args ...any) { FromContext(ctx).Error(msg, args...) }

// CtxWithError - CtxError с ошибкой первым атрибутом
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	FromContext(ctx).Error(msg, append([]any{slog.Any("error", err)}, args...)...)
}
