package domain

import "errors"

// Error kinds. Every domain error wraps exactly one of these so the transport
// layer can pick a status code with errors.Is.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("not authorized")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrRateLimited     = errors.New("rate limited")
)

// Error is a domain failure carrying a client-safe message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unwrap lets errors.Is match the kind sentinel.
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// InvalidInput builds an ErrInvalidInput error with a custom message.
func InvalidInput(msg string) error { return newError(ErrInvalidInput, msg) }

// Forbidden builds an ErrForbidden error with a custom message.
func Forbidden(msg string) error { return newError(ErrForbidden, msg) }

var (
	ErrInvalidCredentials = newError(ErrUnauthenticated, "Invalid credentials")
	ErrInvalidToken       = newError(ErrUnauthenticated, "Not authorized, token failed")
	ErrWrongPassword      = newError(ErrUnauthenticated, "Current password is incorrect")

	ErrUserNotFound     = newError(ErrNotFound, "User not found")
	ErrProjectNotFound  = newError(ErrNotFound, "Project not found")
	ErrCommentNotFound  = newError(ErrNotFound, "Comment not found")
	ErrCategoryNotFound = newError(ErrNotFound, "Category not found")

	ErrEmailInUse         = newError(ErrConflict, "Email already in use")
	ErrCategoryExists     = newError(ErrConflict, "Category already exists")
	ErrAlreadyLiked       = newError(ErrConflict, "Project already liked")
	ErrNotLiked           = newError(ErrConflict, "Project not liked yet")
	ErrAlreadyBookmarked  = newError(ErrConflict, "Project already bookmarked")
	ErrNotBookmarked      = newError(ErrConflict, "Project not bookmarked yet")
	ErrEngagementExists   = newError(ErrConflict, "engagement already recorded")
	ErrEngagementNotFound = newError(ErrNotFound, "engagement not found")

	ErrTagQuotaExceeded = newError(ErrRateLimited, "Too many tag suggestion requests, try again later")
)
