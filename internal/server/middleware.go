package server

import (
	"log/slog"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestIDHeader is echoed on every API response.
const RequestIDHeader = "X-Request-ID"

// requestLogger tags each request with an id (reusing a valid incoming
// X-Request-ID) and logs it once the handler returns.
func requestLogger(logger *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		requestID := ctx.Header(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		ctx.SetHeader(RequestIDHeader, requestID)
		ctx = huma.WithValue(ctx, requestIDKey, requestID)

		next(ctx)

		logger.Info("Request completed",
			"request_id", requestID,
			"method", ctx.Method(),
			"path", ctx.URL().Path,
			"status", ctx.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
