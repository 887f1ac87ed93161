// Package serviceerr defines the error taxonomy shared by the identity,
// session and HTTP layers.
package serviceerr

import "net/http"

type Code string

const (
	CodeInvalidRequest         Code = "invalid_request"
	CodeUnauthenticated        Code = "unauthenticated"
	CodeMisconfigured          Code = "misconfigured"
	CodeSigningFailed          Code = "signing_failed"
	CodeServerError            Code = "server_error"
	CodeTemporarilyUnavailable Code = "temporarily_unavailable"
	CodeUnknown                Code = "unknown"
)

// Error is a service error with a machine readable code and an optional
// human readable description. The description is what clients get to see,
// so it must never carry provider diagnostics or credential details.
type Error struct {
	Err         Code
	Description string
}

func (e *Error) Error() string {
	if e.Description == "" {
		return string(e.Err)
	}

	return string(e.Err) + ": " + e.Description
}

// Is reports whether target is a service error with the same code, so
// errors.Is matches sentinels regardless of the description.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == e.Err
}

// HTTPStatus maps the error code to an HTTP status code.
func (e *Error) HTTPStatus() int {
	switch e.Err {
	case CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeTemporarilyUnavailable:
		return http.StatusServiceUnavailable
	case CodeMisconfigured, CodeSigningFailed, CodeServerError, CodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

var (
	ErrInvalidRequest = &Error{Err: CodeInvalidRequest}

	ErrUnauthenticated             = &Error{Err: CodeUnauthenticated, Description: "invalid username or password"}
	ErrMisconfigured               = &Error{Err: CodeMisconfigured, Description: "token issuance is not configured"}
	ErrSigningFailed               = &Error{Err: CodeSigningFailed, Description: "token signing failed"}
	ErrServerError                 = &Error{Err: CodeServerError, Description: "internal server error"}
	ErrIdentityProviderUnavailable = &Error{Err: CodeTemporarilyUnavailable, Description: "identity provider unavailable"}
	ErrUnknown                     = &Error{Err: CodeUnknown, Description: "unknown error"}
)
