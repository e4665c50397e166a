package alarm

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/oshokin/alarm-clock/internal/logger"
)

// Metadata keys identifying the caller of a request.
const (
	MetadataHostname = "x-alarm-clock-hostname"
	MetadataUsername = "x-alarm-clock-username"
)

// LoggingInterceptor scopes the request logger with the method and caller,
// then logs the outcome of every call.
func LoggingInterceptor(base context.Context) grpc.UnaryServerInterceptor {
	baseLogger := logger.FromContext(base)

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx = logger.ToContext(ctx, baseLogger)
		ctx = logger.WithKV(ctx, "method", info.FullMethod)

		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if hostname := first(md.Get(MetadataHostname)); hostname != "" {
				ctx = logger.WithKV(ctx, "hostname", hostname)
			}

			if username := first(md.Get(MetadataUsername)); username != "" {
				ctx = logger.WithKV(ctx, "username", username)
			}
		}

		started := time.Now()
		resp, err := handler(ctx, req)

		if err != nil {
			logger.WarnKV(ctx, "RPC failed",
				"code", status.Code(err).String(),
				"error", err,
				"duration", time.Since(started))

			return resp, err
		}

		logger.DebugKV(ctx, "RPC handled", "duration", time.Since(started))

		return resp, nil
	}
}

// first returns the first value or an empty string.
func first(values []string) string {
	if len(values) == 0 {
		return ""
	}

	return values[0]
}
