package transport

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/eslsoft/lessonmap/internal/core"
)

// NewErrorInterceptor creates a Connect interceptor that maps domain errors
// to transport-friendly Connect errors.
func NewErrorInterceptor() connect.Interceptor {
	return connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			res, err := next(ctx, req)
			if err == nil {
				return res, nil
			}
			return nil, mapError(err)
		}
	})
}

func mapError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	switch {
	case errors.Is(err, core.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, errors.New(msgInvalidInput))
	case errors.Is(err, core.ErrGeocode):
		return connect.NewError(connect.CodeInvalidArgument, errors.New(msgGeocodeFailed))
	case errors.Is(err, core.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, errors.New(publicMessage(err, msgLessonNotFound)))
	case errors.Is(err, core.ErrUnauthorized):
		return connect.NewError(connect.CodePermissionDenied, errors.New(publicMessage(err, msgNotAllowed)))
	case errors.Is(err, core.ErrUnauthenticated):
		return connect.NewError(connect.CodeUnauthenticated, errors.New(msgAuthFailed))
	case errors.Is(err, core.ErrCreateFailed):
		return connect.NewError(connect.CodeInternal, core.ErrCreateFailed)
	case errors.Is(err, core.ErrDeleteFailed):
		return connect.NewError(connect.CodeInternal, core.ErrDeleteFailed)
	default:
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}
}
