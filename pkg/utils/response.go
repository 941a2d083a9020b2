package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "support-system/pkg/errors"
)

type HttpResponse struct {
	Status bool   `json:"status"`
	Error  string `json:"error"`
}

var ErrorList = map[error]int{
	apperrors.ErrNotFound:          http.StatusNotFound,
	apperrors.ErrTicketNotFound:    http.StatusNotFound,
	apperrors.ErrBadRequest:        http.StatusBadRequest,
	apperrors.ErrInvalidDate:       http.StatusBadRequest,
	apperrors.ErrNothingToPatch:    http.StatusBadRequest,
	apperrors.ErrEmptyAuthHeader:   http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader: http.StatusUnauthorized,
	apperrors.ErrInvalidToken:      http.StatusUnauthorized,
	apperrors.ErrTokenExpired:      http.StatusUnauthorized,
	apperrors.ErrTokenNotYetValid:  http.StatusUnauthorized,
	apperrors.ErrUnauthorized:      http.StatusUnauthorized,
	apperrors.ErrForbidden:         http.StatusForbidden,
}

// ErrorResponse отвечает {"status": false, "error": "..."}. Неожиданные
// ошибки логируются и наружу уходят без деталей.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}
		return c.JSON(httpErr.Code, HttpResponse{Status: false, Error: httpErr.Message})
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		msgs := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Campo '%s' no válido (%s)", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, HttpResponse{Status: false, Error: strings.Join(msgs, "; ")})
	}

	for sentinel, code := range ErrorList {
		if errors.Is(err, sentinel) {
			return c.JSON(code, HttpResponse{Status: false, Error: sentinel.Error()})
		}
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return c.JSON(echoErr.Code, HttpResponse{Status: false, Error: fmt.Sprint(echoErr.Message)})
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, HttpResponse{Status: false, Error: "Error interno del servidor"})
}
