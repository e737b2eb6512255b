package auth

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Sentinel errors for the credential lifecycle. Handlers compare against
// these directly; HTTPStatus maps their categories to response codes so the
// controller never switches on individual sentinels.
var (
	// ErrIdentityNotFound: no account matches the given identifier.
	ErrIdentityNotFound = &goerrors.Error{
		Category: goerrors.CategoryNotFound,
		Message:  "User not found",
		TextCode: "USER_NOT_FOUND",
	}

	// ErrMismatchedHashAndPassword: the password does not match the stored
	// hash. Deliberately indistinguishable in the response body from other
	// credential failures.
	ErrMismatchedHashAndPassword = &goerrors.Error{
		Category: goerrors.CategoryAuth,
		Message:  "Invalid credentials",
		TextCode: "INVALID_CREDENTIALS",
	}

	// ErrAccountNotVerified: credentials are valid but the email address
	// was never confirmed.
	ErrAccountNotVerified = &goerrors.Error{
		Category: goerrors.CategoryAuth,
		Message:  "Please verify your email first.",
		TextCode: "ACCOUNT_NOT_VERIFIED",
	}

	// ErrDuplicateEmail: registration against an email that already has an
	// account.
	ErrDuplicateEmail = &goerrors.Error{
		Category: goerrors.CategoryConflict,
		Message:  "User already exists",
		TextCode: "DUPLICATE_EMAIL",
	}

	// ErrSideTokenInvalid covers both unknown and expired verification or
	// reset tokens; lookup does not reveal which.
	ErrSideTokenInvalid = &goerrors.Error{
		Category: goerrors.CategoryBadInput,
		Message:  "Invalid or expired token",
		TextCode: "SIDE_TOKEN_INVALID",
	}

	// ErrEmailDispatchFailed: the notification dispatcher could not deliver
	// a required email.
	ErrEmailDispatchFailed = &goerrors.Error{
		Category: goerrors.CategoryOperation,
		Message:  "Email could not be sent",
		TextCode: "EMAIL_DISPATCH_FAILED",
	}

	// ErrNoTokenProvided: the request carried no bearer token where one is
	// required.
	ErrNoTokenProvided = &goerrors.Error{
		Category: goerrors.CategoryAuth,
		Message:  "No token provided",
		TextCode: "TOKEN_MISSING",
	}

	// ErrTokenExpired: the session token signature checks out but the
	// token is past its expiry.
	ErrTokenExpired = &goerrors.Error{
		Category: goerrors.CategoryAuth,
		Message:  "Invalid token",
		TextCode: "TOKEN_EXPIRED",
	}

	// ErrTokenMalformed: the session token failed parsing or signature
	// validation.
	ErrTokenMalformed = &goerrors.Error{
		Category: goerrors.CategoryAuth,
		Message:  "Invalid token",
		TextCode: "TOKEN_MALFORMED",
	}

	// ErrAccessDenied: the token is valid but the role is not in the
	// route's allow list.
	ErrAccessDenied = &goerrors.Error{
		Category: goerrors.CategoryAuthz,
		Message:  "Access denied",
		TextCode: "ACCESS_DENIED",
	}

	// ErrTooManyLoginAttempts: the account is in its login cool down
	// window after repeated failures.
	ErrTooManyLoginAttempts = &goerrors.Error{
		Category: goerrors.CategoryRateLimit,
		Message:  "Too many login attempts, please try again later",
		TextCode: "LOGIN_THROTTLED",
	}

	// ErrUnknownRole: a role outside patient, dermatologist, admin.
	ErrUnknownRole = &goerrors.Error{
		Category: goerrors.CategoryValidation,
		Message:  "Unknown role",
		TextCode: "UNKNOWN_ROLE",
	}
)

// HTTPStatus resolves the response status for any error produced by the
// package. Unclassified errors are treated as internal.
func HTTPStatus(err error) int {
	var e *goerrors.Error
	if !goerrors.As(err, &e) {
		return http.StatusInternalServerError
	}

	switch e.Category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput, goerrors.CategoryConflict:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to place in a response body.
func PublicMessage(err error) string {
	var e *goerrors.Error
	if goerrors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Server error"
}

func wrapInternal(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg)
}
