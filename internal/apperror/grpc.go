package apperror

import (
	"context"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-grocery-service/pkg/i18n"
	"github.com/fekuna/omnipos-grocery-service/pkg/lock"
	"github.com/fekuna/omnipos-grocery-service/pkg/middleware"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ToStatus maps err onto a gRPC status whose message is localized for the
// caller's accept-language. Errors that already carry a status pass through.
func ToStatus(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	langs := languages(ctx)

	var (
		validation *ValidationError
		notFound   *NotFoundError
		stock      *InsufficientStockError
		illegal    *IllegalStateError
		conflict   *ConflictError
	)
	switch {
	case errors.As(err, &validation):
		return status.Error(codes.InvalidArgument, i18n.Localize(langs, "error.validation",
			map[string]interface{}{"Detail": strings.TrimPrefix(validation.Error(), "validation: ")}, validation.Error()))
	case errors.As(err, &notFound):
		return status.Error(codes.NotFound, i18n.Localize(langs, "error.not_found",
			map[string]interface{}{"Resource": notFound.Resource, "ID": notFound.ID}, notFound.Error()))
	case errors.As(err, &stock):
		return status.Error(codes.FailedPrecondition, i18n.Localize(langs, "error.insufficient_stock",
			map[string]interface{}{
				"ProductID": stock.ProductID,
				"Required":  stock.Required.String(),
				"Available": stock.Available.String(),
			}, stock.Error()))
	case errors.As(err, &illegal):
		return status.Error(codes.FailedPrecondition, i18n.Localize(langs, "error.illegal_state",
			map[string]interface{}{"Detail": strings.TrimPrefix(illegal.Error(), "illegal state: ")}, illegal.Error()))
	case errors.As(err, &conflict):
		return status.Error(codes.AlreadyExists, i18n.Localize(langs, "error.conflict",
			map[string]interface{}{"Detail": conflict.Detail}, conflict.Error()))
	case errors.Is(err, lock.ErrBusy):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, i18n.Localize(langs, "error.internal", nil, "internal error"))
	}
}

func languages(ctx context.Context) []string {
	if langs, ok := ctx.Value(middleware.LanguageKey).([]string); ok {
		return langs
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		return md.Get("accept-language")
	}
	return nil
}
