// Package apperr holds the user-facing error type and the business failures
// shared by services, middleware and handlers.
package apperr

import (
	"errors"
	"net/http"
)

// AppError is a failure that is safe to show to the caller.
type AppError struct {
	Status  int
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches on status and message so a wrapped copy of a sentinel still
// satisfies errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Status == t.Status && e.Message == t.Message
}

func New(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

// Wrap returns a copy of sentinel carrying cause.
func Wrap(sentinel *AppError, cause error) *AppError {
	return &AppError{Status: sentinel.Status, Message: sentinel.Message, Cause: cause}
}

// As extracts the AppError from err, if any.
func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Not-found failures use 400, the status clients of this API already rely on.
var (
	ErrValidation = New(http.StatusBadRequest, "invalid or missing fields")
	ErrInvalidID  = New(http.StatusBadRequest, "invalid id")

	ErrMissingToken = New(http.StatusUnauthorized, "please log in first")
	ErrExpiredToken = New(http.StatusUnauthorized, "token expired")
	ErrInvalidToken = New(http.StatusUnauthorized, "invalid token")
	ErrForbidden    = New(http.StatusUnauthorized, "permission denied")

	ErrEmailTaken         = New(http.StatusConflict, "email already in use")
	ErrWeakPassword       = New(http.StatusBadRequest, "password must be 8-16 characters with upper, lower case letters and digits")
	ErrBadCredentials     = New(http.StatusBadRequest, "user not found or wrong password")
	ErrWrongPassword      = New(http.StatusBadRequest, "wrong password")
	ErrPasswordMismatch   = New(http.StatusBadRequest, "new password and confirmation do not match")
	ErrPasswordUnchanged  = New(http.StatusBadRequest, "new password must differ from the current one")
	ErrNameUnchanged      = New(http.StatusBadRequest, "name unchanged")
	ErrUpdateFailed       = New(http.StatusBadRequest, "update failed")
	ErrUserNotFound       = New(http.StatusBadRequest, "user not found")
	ErrInvalidRefresh     = New(http.StatusUnauthorized, "invalid refresh token")
	ErrAlreadyCoach       = New(http.StatusBadRequest, "user is already a coach")
	ErrCoachNotFound      = New(http.StatusBadRequest, "coach not found")
	ErrSkillNotFound      = New(http.StatusBadRequest, "skill not found")
	ErrSkillTaken         = New(http.StatusConflict, "duplicate skill")
	ErrPackageNotFound    = New(http.StatusBadRequest, "credit package not found")
	ErrPackageTaken       = New(http.StatusBadRequest, "duplicate credit package")
	ErrCourseNotFound     = New(http.StatusBadRequest, "course not found")
	ErrAlreadyBooked      = New(http.StatusBadRequest, "course already booked")
	ErrNoCreditsRemaining = New(http.StatusBadRequest, "no credits remaining")
	ErrCourseFull         = New(http.StatusBadRequest, "course is full")
	ErrBookingNotFound    = New(http.StatusBadRequest, "booking not found")
	ErrCancelFailed       = New(http.StatusBadRequest, "cancel failed")
	ErrInvalidMonth       = New(http.StatusBadRequest, "invalid month")
	ErrUnsupportedImage   = New(http.StatusBadRequest, "only jpg, jpeg and png images are accepted")
	ErrImageTooLarge      = New(http.StatusBadRequest, "image exceeds 2MB")
)
