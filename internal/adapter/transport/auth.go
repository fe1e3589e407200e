package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/eslsoft/lessonmap/internal/core"
)

// Claims are the JWT claims accepted by the API.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens issued for lesson creators.
type Authenticator struct {
	key []byte
}

// NewAuthenticator builds an authenticator for tokens signed with key.
func NewAuthenticator(key []byte) *Authenticator {
	return &Authenticator{key: key}
}

// Verify parses a raw token and returns the user it was issued for.
func (a *Authenticator) Verify(raw string) (uuid.UUID, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return a.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", core.ErrUnauthenticated, err)
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid userId claim", core.ErrUnauthenticated)
	}
	return id, nil
}

func (a *Authenticator) verifyHeader(header string) (uuid.UUID, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return uuid.Nil, fmt.Errorf("%w: missing bearer token", core.ErrUnauthenticated)
	}
	return a.Verify(strings.TrimSpace(token))
}

// Middleware rejects requests without a valid bearer token and stores the
// requester id in the request context. Preflight requests pass through.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		id, err := a.verifyHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeMessage(w, r, http.StatusUnauthorized, msgAuthFailed)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithRequester(r.Context(), id)))
	})
}

// NewAuthInterceptor authenticates Connect calls. Procedures listed in public
// are served without credentials.
func NewAuthInterceptor(a *Authenticator, public ...string) connect.Interceptor {
	open := make(map[string]struct{}, len(public))
	for _, procedure := range public {
		open[procedure] = struct{}{}
	}

	return connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if _, ok := open[req.Spec().Procedure]; ok {
				return next(ctx, req)
			}

			id, err := a.verifyHeader(req.Header().Get("Authorization"))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New(msgAuthFailed))
			}
			return next(WithRequester(ctx, id), req)
		}
	})
}

type requesterKey struct{}

// WithRequester stores the authenticated user id in ctx.
func WithRequester(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, requesterKey{}, id)
}

// RequesterFromContext returns the authenticated user id, if any.
func RequesterFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(requesterKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func requester(ctx context.Context) (uuid.UUID, error) {
	id, ok := RequesterFromContext(ctx)
	if !ok {
		return uuid.Nil, core.ErrUnauthenticated
	}
	return id, nil
}
