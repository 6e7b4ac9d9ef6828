package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-grocery-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type contextKey string

const (
	UsernameKey  contextKey = "username"
	RequestIDKey contextKey = "request_id"
	LanguageKey  contextKey = "language"
)

// ContextInterceptor lifts well-known metadata headers into the context.
func ContextInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		md, _ := metadata.FromIncomingContext(ctx)

		requestID := first(md, "x-request-id")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx = context.WithValue(ctx, RequestIDKey, requestID)

		if username := first(md, "x-username"); username != "" {
			ctx = context.WithValue(ctx, UsernameKey, username)
		}
		if langs := md.Get("accept-language"); len(langs) > 0 {
			ctx = context.WithValue(ctx, LanguageKey, langs)
		}

		return handler(ctx, req)
	}
}

// LoggingInterceptor logs one line per call and turns panics into Internal.
func LoggingInterceptor(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				log.Error("panic in handler", zap.String("method", info.FullMethod), zap.Any("panic", r))
				err = status.Error(codes.Internal, fmt.Sprint(r))
			}

			requestID, _ := ctx.Value(RequestIDKey).(string)
			fields := []zap.Field{
				zap.String("method", info.FullMethod),
				zap.String("request_id", requestID),
				zap.String("code", status.Code(err).String()),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil && status.Code(err) == codes.Internal {
				log.Error("rpc failed", append(fields, zap.Error(err))...)
				return
			}
			log.Info("rpc", fields...)
		}()

		return handler(ctx, req)
	}
}

func first(md metadata.MD, key string) string {
	if md == nil {
		return ""
	}
	if vals := md.Get(key); len(vals) > 0 {
		return vals[0]
	}
	return ""
}
