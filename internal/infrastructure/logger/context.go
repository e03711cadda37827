package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// DealerIDKey is the context key for dealer ID
	DealerIDKey contextKey = "dealer_id"
	// UserIDKey is the context key for user ID
	UserIDKey contextKey = "user_id"
)

// WithLogger stores a logger in the context
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, enriched with request fields.
// Returns a no-op logger if none is stored.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return zap.NewNop()
	}

	logger, ok := ctx.Value(LoggerKey).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}

	return enrichedLogger(ctx, logger)
}

// L is a shorthand for FromContext
func L(ctx context.Context) *zap.Logger {
	return FromContext(ctx)
}

// enrichedLogger adds request-scoped fields stored in the context
func enrichedLogger(ctx context.Context, logger *zap.Logger) *zap.Logger {
	fields := make([]zap.Field, 0, 3)

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if dealerID := GetDealerID(ctx); dealerID != "" {
		fields = append(fields, zap.String("dealer_id", dealerID))
	}
	if userID := GetUserID(ctx); userID != "" {
		fields = append(fields, zap.String("user_id", userID))
	}

	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// WithRequestID stores a request ID in the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithDealerID stores a dealer ID in the context
func WithDealerID(ctx context.Context, dealerID string) context.Context {
	return context.WithValue(ctx, DealerIDKey, dealerID)
}

// GetDealerID retrieves the dealer ID from context
func GetDealerID(ctx context.Context) string {
	if dealerID, ok := ctx.Value(DealerIDKey).(string); ok {
		return dealerID
	}
	return ""
}

// WithUserID stores a user ID in the context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID retrieves the user ID from context
func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(UserIDKey).(string); ok {
		return userID
	}
	return ""
}
