package grpcapi

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/Leganyst/parking-platform/internal/access"
	"github.com/Leganyst/parking-platform/internal/logging"
)

const userIDMetadataKey = "x-user-id"

// PrincipalInterceptor определяет пользователя по метаданным x-user-id.
func PrincipalInterceptor(users access.UserStore) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		var raw string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(userIDMetadataKey); len(vals) > 0 {
				raw = vals[0]
			}
		}

		p, err := access.ResolvePrincipal(ctx, users, raw)
		if err != nil {
			return nil, toStatus(err)
		}
		return handler(access.WithPrincipal(ctx, p), req)
	}
}

func LoggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	st, _ := status.FromError(err)
	ev := logging.Info(ctx)
	if err != nil {
		ev = logging.Warn(ctx).Err(err)
	}
	ev.Str("method", info.FullMethod).
		Str("code", st.Code().String()).
		Dur("duration", time.Since(start)).
		Msg("grpc request")
	return resp, err
}
