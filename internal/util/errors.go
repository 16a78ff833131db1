package util

import (
	"errors"
	"fmt"
)

var (
	ErrAuthRequired = errors.New("authentication required")
	ErrForbidden    = errors.New("permission denied")

	ErrUserNotFound       = errors.New("user not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	ErrEmailTaken      = errors.New("email is already registered")
	ErrUsernameTaken   = errors.New("username is already taken")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")

	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrValidation marks request-shape failures; wrap it with the field
	// detail so callers can errors.Is against the class.
	ErrValidation = errors.New("validation failed")
)

func ValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
