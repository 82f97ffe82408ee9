package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-auth/internal/domain/errs"
	"github.com/oksasatya/go-ddd-auth/pkg/helpers"
	"github.com/oksasatya/go-ddd-auth/pkg/response"
	"github.com/oksasatya/go-ddd-auth/pkg/validation"
)

// statusFor maps domain errors onto HTTP status codes and public messages.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest, "validation failed"
	case errors.Is(err, errs.ErrDuplicateEmail):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, errs.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, errs.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid or expired token"
	case errors.Is(err, errs.ErrInactiveUser):
		return http.StatusForbidden, "account is not active"
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, "insufficient privileges"
	case errors.Is(err, errs.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	status, msg := statusFor(err)
	var details any
	if status == http.StatusBadRequest {
		details = validation.ToDetails(err)
	}
	if status == http.StatusInternalServerError && logger != nil {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		})
	}
	response.Error[any](c, status, msg, details)
}

func bindError(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}
