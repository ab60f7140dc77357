package oauth2

import "fmt"

// Standard OAuth2 error codes (RFC 6749 §5.2)
const (
	CodeInvalidRequest       = "invalid_request"
	CodeInvalidClient        = "invalid_client"
	CodeInvalidGrant         = "invalid_grant"
	CodeInvalidScope         = "invalid_scope"
	CodeAccessDenied         = "access_denied"
	CodeUnauthorizedClient   = "unauthorized_client"
	CodeUnsupportedGrantType = "unsupported_grant_type"
	CodeServerError          = "server_error"
)

// Error is a standardized OAuth 2.0 protocol error. Two Errors match under
// errors.Is when their codes are equal, so callers can test against the
// exported Err* sentinels without caring about the description.
type Error struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (e *Error) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches on the OAuth2 error code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinels for errors.Is matching.
var (
	ErrInvalidRequest       = &Error{Code: CodeInvalidRequest}
	ErrInvalidClient        = &Error{Code: CodeInvalidClient}
	ErrInvalidGrant         = &Error{Code: CodeInvalidGrant}
	ErrInvalidScope         = &Error{Code: CodeInvalidScope}
	ErrAccessDenied         = &Error{Code: CodeAccessDenied}
	ErrUnauthorizedClient   = &Error{Code: CodeUnauthorizedClient}
	ErrUnsupportedGrantType = &Error{Code: CodeUnsupportedGrantType}
)

func NewInvalidRequest(description string) *Error {
	return &Error{Code: CodeInvalidRequest, Description: description}
}

func NewInvalidClient(description string) *Error {
	return &Error{Code: CodeInvalidClient, Description: description}
}

func NewInvalidGrant(description string) *Error {
	return &Error{Code: CodeInvalidGrant, Description: description}
}

func NewInvalidScope(description string) *Error {
	return &Error{Code: CodeInvalidScope, Description: description}
}

func NewAccessDenied(description string) *Error {
	return &Error{Code: CodeAccessDenied, Description: description}
}

func NewUnauthorizedClient(description string) *Error {
	return &Error{Code: CodeUnauthorizedClient, Description: description}
}

func NewUnsupportedGrantType(grantType GrantType) *Error {
	return &Error{
		Code:        CodeUnsupportedGrantType,
		Description: fmt.Sprintf("grant type %q is not supported", grantType),
	}
}

func NewServerError(description string) *Error {
	return &Error{Code: CodeServerError, Description: description}
}
