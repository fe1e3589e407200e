package transport

import (
	"context"

	"connectrpc.com/connect"
)

// NewValidationInterceptor rejects requests whose message fails its own Validate check.
func NewValidationInterceptor() connect.Interceptor {
	return connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if msg, ok := req.Any().(Validatable); ok {
				if err := msg.Validate(); err != nil {
					return nil, err
				}
			}
			return next(ctx, req)
		}
	})
}
