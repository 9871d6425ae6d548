package domain

import (
	"errors"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ErrorKind groups errors by how the request boundary reports them.
type ErrorKind string

const (
	KindNotFound             ErrorKind = "not_found"
	KindValidationConflict   ErrorKind = "validation_conflict"
	KindPermissionDenied     ErrorKind = "permission_denied"
	KindUnauthenticated      ErrorKind = "unauthenticated"
	KindExternalFetchFailure ErrorKind = "external_fetch_failure"
)

type kindError struct {
	kind ErrorKind
	msg  string
}

func (e *kindError) Error() string   { return e.msg }
func (e *kindError) Kind() ErrorKind { return e.kind }

func NewError(kind ErrorKind, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// KindOf returns the kind of the first classified error in err's chain, or ""
// when err carries none.
func KindOf(err error) ErrorKind {
	var ke interface{ Kind() ErrorKind }
	if errors.As(err, &ke) {
		return ke.Kind()
	}
	return ""
}

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageLoginRequired        = "please log in to continue"
	MessagePermissionDenied     = "you do not have permission to perform this action"
	MessageSuccessPing          = "pong"

	ErrPermissionDenied = NewError(KindPermissionDenied, "permission denied")
	ErrTokenNotFound    = NewError(KindUnauthenticated, "failed to token not found")
	ErrTokenExpired     = NewError(KindUnauthenticated, "token expired")
	ErrTokenInvalid     = NewError(KindUnauthenticated, "token invalid")
	ErrTokenRevoked     = NewError(KindUnauthenticated, "token revoked")
)

type (
	ContactRequest struct {
		Name    string `json:"name" form:"name" validate:"required,max=100"`
		Email   string `json:"email" form:"email" validate:"required,email"`
		Message string `json:"message" form:"message" validate:"required,max=5000"`
	}
)

var (
	MessageSuccessContact = "Thank you for your message! We will get back to you soon."
	MessageFailedContact  = "failed to send message"
)
