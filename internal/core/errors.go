package core

import "errors"

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates the requester is not the creator of the resource.
	ErrUnauthorized = errors.New("not allowed")
	// ErrUnauthenticated indicates the request carried no valid credentials.
	ErrUnauthenticated = errors.New("authentication failed")
	// ErrValidation represents user input validation failures.
	ErrValidation = errors.New("validation error")
	// ErrStore wraps infrastructure failures raised by the persistence layer.
	ErrStore = errors.New("store error")
	// ErrGeocode indicates an address could not be resolved to a location.
	ErrGeocode = errors.New("could not find location for the specified address")
	// ErrCreateFailed indicates the lesson creation transaction did not complete.
	ErrCreateFailed = errors.New("creating lesson failed")
	// ErrDeleteFailed indicates the lesson deletion transaction did not complete.
	ErrDeleteFailed = errors.New("deleting lesson failed")
)

// PublicError pairs an error kind with a message that is safe to show to API clients.
type PublicError struct {
	Kind    error
	Message string
}

// NewPublicError returns an error of the given kind carrying message.
func NewPublicError(kind error, message string) error {
	return &PublicError{Kind: kind, Message: message}
}

func (e *PublicError) Error() string {
	return e.Kind.Error() + ": " + e.Message
}

func (e *PublicError) Unwrap() error {
	return e.Kind
}
