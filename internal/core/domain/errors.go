package domain

import "errors"

// Kind classifies an Error. The transport layer maps each kind to exactly
// one status code.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is the closed set of failures raised by the core. Message is safe
// to show to callers.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds an Error of the given kind.
func NewError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// KindOf returns the Kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Validation failures.
var (
	ErrEmailRequired      = NewError(KindBadRequest, "EMAIL_REQUIRED", "Email is required")
	ErrEmailInvalidFormat = NewError(KindBadRequest, "EMAIL_INVALID_FORMAT", "Invalid email format")
	ErrPasswordRequired   = NewError(KindBadRequest, "PASSWORD_REQUIRED", "Password is required")
	ErrPasswordTooShort   = NewError(KindBadRequest, "PASSWORD_TOO_SHORT", "Password must be at least 8 characters long")
	ErrAgeRequired        = NewError(KindBadRequest, "AGE_REQUIRED", "Age is required")
	ErrAgeNotInteger      = NewError(KindBadRequest, "AGE_NOT_INTEGER", "Age must be an integer")
	ErrAgeUnderMinimum    = NewError(KindBadRequest, "AGE_UNDER_MINIMUM", "User must be at least 18 years old")
	ErrRoleInvalid        = NewError(KindBadRequest, "ROLE_INVALID", "Role must be either USER or ADMIN")
	ErrNameRequired       = NewError(KindBadRequest, "NAME_REQUIRED", "Name is required")
)

// Request boundary failures.
var (
	ErrInvalidBody          = NewError(KindBadRequest, "INVALID_BODY", "Invalid request body")
	ErrLoginFieldsRequired  = NewError(KindBadRequest, "LOGIN_FIELDS_REQUIRED", "Email and password are required")
	ErrCreateFieldsRequired = NewError(KindBadRequest, "CREATE_FIELDS_REQUIRED", "Name, email, age and password are required")
	ErrNameQueryRequired    = NewError(KindBadRequest, "NAME_QUERY_REQUIRED", "Name query parameter is required")
	ErrEmailQueryRequired   = NewError(KindBadRequest, "EMAIL_QUERY_REQUIRED", "Email query parameter is required")
)

// Authentication and authorization failures.
var (
	ErrInvalidCredentials      = NewError(KindUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	ErrAuthHeaderMissing       = NewError(KindUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
	ErrAuthHeaderMalformed     = NewError(KindUnauthorized, "AUTH_HEADER_MALFORMED", "Invalid authorization format. Use: Bearer <token>")
	ErrInvalidToken            = NewError(KindUnauthorized, "INVALID_OR_EXPIRED_TOKEN", "Invalid or expired token")
	ErrAuthenticationRequired  = NewError(KindUnauthorized, "AUTHENTICATION_REQUIRED", "Authentication required")
	ErrInsufficientPermissions = NewError(KindForbidden, "INSUFFICIENT_PERMISSIONS", "Insufficient permissions")
)

// Store outcomes.
var (
	ErrUserNotFound = NewError(KindNotFound, "USER_NOT_FOUND", "User not found")
	ErrEmailInUse   = NewError(KindConflict, "EMAIL_IN_USE", "Email already in use")
)
