package transport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/eslsoft/lessonmap/internal/core"
)

func TestValidationInterceptor_AllowsValidRequest(t *testing.T) {
	interceptor := NewValidationInterceptor()
	nextCalled := false

	unary := interceptor.WrapUnary(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		nextCalled = true
		return connect.NewResponse(&LessonResponse{}), nil
	})

	req := connect.NewRequest(&CreateLessonRequest{
		LessonInput: LessonInput{Title: "Yoga", Description: "Morning flow class", Address: "1 Main St"},
		Image:       ImagePayload{Filename: "yoga.png", ContentType: "image/png", Data: []byte("png")},
	})

	if _, err := unary(context.Background(), req); err != nil {
		t.Fatalf("unary() error = %v", err)
	}
	if !nextCalled {
		t.Fatal("expected next to be called")
	}
}

func TestValidationInterceptor_InvalidRequestReturnsValidationError(t *testing.T) {
	interceptor := NewValidationInterceptor()

	cases := map[string]connect.AnyRequest{
		"missing title": connect.NewRequest(&CreateLessonRequest{
			LessonInput: LessonInput{Description: "Morning flow class", Address: "1 Main St"},
			Image:       ImagePayload{ContentType: "image/png", Data: []byte("png")},
		}),
		"short description": connect.NewRequest(&UpdateLessonRequest{
			LessonPatch: LessonPatch{Title: "Yoga", Description: "abc"},
		}),
		"bad image type": connect.NewRequest(&CreateLessonRequest{
			LessonInput: LessonInput{Title: "Yoga", Description: "Morning flow class", Address: "1 Main St"},
			Image:       ImagePayload{ContentType: "image/gif", Data: []byte("gif")},
		}),
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			nextCalled := false
			unary := interceptor.WrapUnary(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
				nextCalled = true
				return connect.NewResponse(&LessonResponse{}), nil
			})

			if _, err := unary(context.Background(), req); err == nil {
				t.Fatal("expected validation error for invalid request")
			} else if !errors.Is(err, core.ErrValidation) {
				t.Fatalf("expected error to wrap core.ErrValidation, got %v", err)
			}
			if nextCalled {
				t.Fatal("expected interceptor to block invalid request before calling next")
			}
		})
	}
}

func TestValidationInterceptor_PassesMessagesWithoutRules(t *testing.T) {
	interceptor := NewValidationInterceptor()
	nextCalled := false

	unary := interceptor.WrapUnary(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		nextCalled = true
		return connect.NewResponse(&LessonResponse{}), nil
	})

	if _, err := unary(context.Background(), connect.NewRequest(&GetLessonRequest{})); err != nil {
		t.Fatalf("unary() error = %v", err)
	}
	if !nextCalled {
		t.Fatal("expected next to be called")
	}
}

func TestErrorInterceptor_MapsDomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code connect.Code
	}{
		{core.ErrNotFound, connect.CodeNotFound},
		{core.ErrUnauthorized, connect.CodePermissionDenied},
		{core.ErrUnauthenticated, connect.CodeUnauthenticated},
		{core.ErrValidation, connect.CodeInvalidArgument},
		{core.ErrGeocode, connect.CodeInvalidArgument},
		{core.ErrCreateFailed, connect.CodeInternal},
		{errors.New("pq: connection refused"), connect.CodeInternal},
	}

	for _, tc := range cases {
		unary := NewErrorInterceptor().WrapUnary(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			return nil, tc.err
		})
		_, err := unary(context.Background(), connect.NewRequest(&GetLessonRequest{}))
		if got := connect.CodeOf(err); got != tc.code {
			t.Fatalf("%v: expected code %v, got %v", tc.err, tc.code, got)
		}
	}

	unary := NewErrorInterceptor().WrapUnary(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, errors.New("pq: password authentication failed")
	})
	_, err := unary(context.Background(), connect.NewRequest(&GetLessonRequest{}))
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) || connectErr.Message() != "internal error" {
		t.Fatalf("expected internal details to be hidden, got %v", err)
	}
}

func TestErrorInterceptor_UsesFixedMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: Get \"https://maps.example/geocode?key=secret\": dial tcp: timeout", core.ErrGeocode), "Could not find location for the specified address."},
		{fmt.Errorf("%w: title is required", core.ErrValidation), "Invalid inputs passed, please check your data."},
		{fmt.Errorf("loading lesson: %w", core.NewPublicError(core.ErrNotFound, "could not find lesson for this id")), "Could not find lesson for this id."},
		{core.ErrUnauthorized, "You are not allowed to perform this action."},
		{core.ErrDeleteFailed, core.ErrDeleteFailed.Error()},
	}

	for _, tc := range cases {
		unary := NewErrorInterceptor().WrapUnary(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			return nil, tc.err
		})
		_, err := unary(context.Background(), connect.NewRequest(&GetLessonRequest{}))

		var connectErr *connect.Error
		if !errors.As(err, &connectErr) {
			t.Fatalf("%v: expected a connect error, got %v", tc.err, err)
		}
		if connectErr.Message() != tc.want {
			t.Fatalf("%v: expected message %q, got %q", tc.err, tc.want, connectErr.Message())
		}
		if strings.Contains(connectErr.Error(), "secret") {
			t.Fatalf("expected upstream details to be hidden, got %q", connectErr.Error())
		}
	}
}
