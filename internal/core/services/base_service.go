package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/wallet_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	// Clock returns the current time; tests pin it.
	Clock func() time.Time
}

// Now returns the service clock's current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.ErrorContext(ctx, msg, args...)
}

// LogWarn logs an expected failure such as a rejected amount
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.WarnContext(ctx, msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).InfoContext(ctx, msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).DebugContext(ctx, msg, keyvals...)
}
