// Package apperr defines the error taxonomy surfaced to API callers.
//
// Services return *Error for every business-rule failure. Anything else that
// reaches a handler is treated as an internal failure.
package apperr

import (
	"errors"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeInternal         Code = "INTERNAL"
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodeUserNotFound     Code = "USER_NOT_FOUND"
	CodeNotAuthorized    Code = "NOT_AUTHORIZED"
	CodeNotFound         Code = "NOT_FOUND"
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeInviteNotPending Code = "INVITE_NOT_PENDING"
	CodeInviteExpired    Code = "INVITE_EXPIRED"
	CodeInviteNotForUser Code = "INVITE_NOT_FOR_USER"
	CodeUserDoesNotExist Code = "USER_DOES_NOT_EXIST"
	CodeCannotInviteSelf Code = "CANNOT_INVITE_SELF"
	CodeCannotKickSelf   Code = "CANNOT_KICK_SELF"
	CodeUserNotMember    Code = "USER_NOT_MEMBER"
	CodeRateLimited      Code = "RATE_LIMITED"
)

// Error is a domain error with a user-facing message.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New returns an *Error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Common errors with the messages callers show verbatim.
var (
	ErrUnauthenticated  = New(CodeUnauthenticated, "Not authenticated")
	ErrUserNotFound     = New(CodeUserNotFound, "User not found")
	ErrNotAuthorized    = New(CodeNotAuthorized, "Not authorized")
	ErrInviteNotPending = New(CodeInviteNotPending, "Invite not pending")
	ErrInviteExpired    = New(CodeInviteExpired, "Invite expired")
	ErrInviteNotForUser = New(CodeInviteNotForUser, "Invite not for this user")
	ErrUserDoesNotExist = New(CodeUserDoesNotExist, "User does not exist in the system")
	ErrCannotInviteSelf = New(CodeCannotInviteSelf, "You cannot invite yourself")
	ErrCannotKickSelf   = New(CodeCannotKickSelf, "Cannot kick yourself")
	ErrUserNotMember    = New(CodeUserNotMember, "User is not a member of this organization")
	ErrRateLimited      = New(CodeRateLimited, "Too many requests, slow down")
)

// NotFound builds a NOT_FOUND error naming the missing entity.
func NotFound(entity string) *Error {
	return New(CodeNotFound, entity+" not found")
}

// Invalid builds an INVALID_ARGUMENT error.
func Invalid(msg string) *Error {
	return New(CodeInvalidArgument, msg)
}

// CodeOf extracts the code from err, or CodeInternal if err is not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries code.
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// HTTPStatus maps a code to its HTTP status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeNotAuthorized:
		return http.StatusForbidden
	case CodeNotFound, CodeUserNotFound, CodeUserDoesNotExist:
		return http.StatusNotFound
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeInviteNotPending, CodeInviteExpired, CodeInviteNotForUser,
		CodeCannotInviteSelf, CodeCannotKickSelf, CodeUserNotMember:
		return http.StatusConflict
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
