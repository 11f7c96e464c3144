package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quizm/users-service/internal/api/handler"
	"github.com/quizm/users-service/internal/core/domain"
)

// Error codes rendered in the envelope.
const (
	codeUnauthenticated    = "Unauthenticated"
	codeInvalidCredentials = "InvalidCredentials"
	codeDuplicateEmail     = "DuplicateEmail"
	codeValidation         = "ValidationError"
	codeBadRequest         = "BadRequest"
	codeNotFound           = "NotFound"
	codeInternal           = "InternalError"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the envelope {"data": null, "errors": [{"code", "message"}]}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.ErrorResponse) {
	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, handler.NewErrorResponse(codeValidation, ve.Fields...)
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, handler.NewErrorResponse(codeUnauthenticated, "authentication required")
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, handler.NewErrorResponse(codeUnauthenticated, "session expired")
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, handler.NewErrorResponse(codeUnauthenticated, "invalid session")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, handler.NewErrorResponse(codeInvalidCredentials, "invalid email or password")
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, handler.NewErrorResponse(codeDuplicateEmail, "user with this email already exists")
	case errors.Is(err, domain.ErrInvalidScore):
		return http.StatusUnprocessableEntity, handler.NewErrorResponse(codeValidation, "score must be between 0 and 99")
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, handler.NewErrorResponse(codeNotFound, "user not found")
	}

	// Echo's own errors (bind failures, unknown routes, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		return he.Code, handler.NewErrorResponse(codeForStatus(he.Code), fmt.Sprintf("%v", he.Message))
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, handler.NewErrorResponse(codeInternal, "internal server error")
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return codeBadRequest
	case http.StatusUnauthorized:
		return codeUnauthenticated
	case http.StatusNotFound:
		return codeNotFound
	case http.StatusUnprocessableEntity:
		return codeValidation
	default:
		return strings.ReplaceAll(http.StatusText(status), " ", "")
	}
}
