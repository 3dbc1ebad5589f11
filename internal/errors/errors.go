package errors

import (
	"errors"
	"net/http"
)

// Messages shared by several resources.
const (
	MsgInvalidID          = "Invalid id"
	MsgNotFound           = "Not found"
	MsgInvalidCredentials = "Invalid credentials"
	MsgInvalidToken       = "Invalid or missing token"
	MsgInternal           = "Internal Server Error"
)

// Kind classifies a failure independently of the transport.
type Kind int

const (
	// KindInternal is anything unanticipated.
	KindInternal Kind = iota
	// KindMalformedInput covers bad id shapes and failed validation.
	KindMalformedInput
	// KindUnauthenticated covers bad credentials and absent or invalid tokens.
	KindUnauthenticated
	// KindNotFound is a well-formed id with no record behind it.
	KindNotFound
	// KindConflict is a unique constraint violation.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindMalformedInput:
		return "malformed_input"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// StatusCode returns the HTTP status for the kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindMalformedInput:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is the error type returned by every resource operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

// Unwrap implements errors.Unwrap.
func (e *Error) Unwrap() error {
	return e.Err
}

// MalformedInput builds a 400-class error.
func MalformedInput(message string) *Error {
	return &Error{Kind: KindMalformedInput, Message: message}
}

// InvalidID is the malformed identifier error.
func InvalidID() *Error {
	return MalformedInput(MsgInvalidID)
}

// Unauthenticated builds a 401-class error.
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// NotFound builds a 404-class error with the shared message.
func NotFound() *Error {
	return &Error{Kind: KindNotFound, Message: MsgNotFound}
}

// Conflict builds a 409-class error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal wraps an unanticipated failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Err: err}
}

// KindOf returns the kind carried by err, KindInternal when there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

// MapErrorToHTTP maps an error to its status and client-facing message.
// Internal failures never leak their cause.
func MapErrorToHTTP(err error) *HTTPError {
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Kind == KindInternal {
		return NewHTTPError(http.StatusInternalServerError, MsgInternal)
	}
	msg := appErr.Message
	if msg == "" {
		msg = http.StatusText(appErr.Kind.StatusCode())
	}
	return NewHTTPError(appErr.Kind.StatusCode(), msg)
}
