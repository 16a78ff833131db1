package util

import (
	"coursehub_backend/pkg/logger"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers reply with a flat envelope: a success flag, a human-readable
// message and any payload fields merged alongside them.

func Success(c *gin.Context, payload gin.H) {
	respond(c, http.StatusOK, true, "", payload)
}

func SuccessMessage(c *gin.Context, message string, payload gin.H) {
	respond(c, http.StatusOK, true, message, payload)
}

func Created(c *gin.Context, message string, payload gin.H) {
	respond(c, http.StatusCreated, true, message, payload)
}

func Error(c *gin.Context, code int, message string) {
	respond(c, code, false, message, nil)
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Authentication required")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Permission denied")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

// LogInternalError logs the full error server-side and returns only the
// generic message to the caller.
func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("internal server error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	InternalServerError(c)
}

// HandleServiceError maps the service error taxonomy onto HTTP statuses.
// Anything unrecognized is an internal failure.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAuthRequired):
		Unauthorized(c)
	case errors.Is(err, ErrForbidden):
		Forbidden(c)
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrCourseNotFound),
		errors.Is(err, ErrEnrollmentNotFound):
		Error(c, http.StatusNotFound, capitalize(err.Error()))
	case errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrUsernameTaken),
		errors.Is(err, ErrAlreadyEnrolled):
		Error(c, http.StatusConflict, capitalize(err.Error()))
	case errors.Is(err, ErrInvalidCredentials):
		Error(c, http.StatusUnauthorized, capitalize(err.Error()))
	case errors.Is(err, ErrValidation):
		BadRequest(c, capitalize(err.Error()))
	default:
		LogInternalError(c, err)
	}
}

func respond(c *gin.Context, code int, success bool, message string, payload gin.H) {
	body := gin.H{"success": success}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(code, body)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
