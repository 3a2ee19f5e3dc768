package middleware

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/senderkeys/internal/logger"
)

// Logging is a unary interceptor that logs gRPC requests and results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// HandleGRPC logs method name, duration and status of each unary request.
// Expected outcomes are logged at debug, server faults at error.
func (l *Logging) HandleGRPC(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	code := codes.OK
	if err != nil {
		code = codes.Internal
		if st, ok := status.FromError(err); ok {
			code = st.Code()
		}
	}

	attrs := []any{
		"method", info.FullMethod,
		"duration_ms", time.Since(start).Milliseconds(),
		"status", code.String(),
	}

	switch code {
	case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable:
		l.logger.Error("gRPC request failed", append(attrs, "error", err.Error())...)
	case codes.OK:
		l.logger.Info("gRPC request completed", attrs...)
	default:
		l.logger.Debug("gRPC request rejected", append(attrs, "error", err.Error())...)
	}

	return resp, err
}
