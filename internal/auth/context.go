package auth

import (
	"context"

	"github.com/fekuna/omnipos-grocery-service/pkg/middleware"
	"google.golang.org/grpc/metadata"
)

// GetUsername returns the caller's username, set by the gateway in front of
// the service. Empty when the call is anonymous.
func GetUsername(ctx context.Context) string {
	// Check if added to context by interceptor
	if val, ok := ctx.Value(middleware.UsernameKey).(string); ok {
		return val
	}

	// Fallback to metadata
	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get("x-username"); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}

// Actor is the value recorded as created_by on audit rows.
func Actor(ctx context.Context) *string {
	if u := GetUsername(ctx); u != "" {
		return &u
	}
	return nil
}
