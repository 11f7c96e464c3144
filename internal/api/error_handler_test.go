package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quizm/users-service/internal/api/handler"
	"github.com/quizm/users-service/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, codeUnauthenticated},
		{"expired", domain.ErrTokenExpired, http.StatusUnauthorized, codeUnauthenticated},
		{"invalid token", fmt.Errorf("%w: bad signature", domain.ErrInvalidToken), http.StatusUnauthorized, codeUnauthenticated},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, codeInvalidCredentials},
		{"duplicate", domain.ErrDuplicateEmail, http.StatusConflict, codeDuplicateEmail},
		{"validation", &handler.ValidationError{Fields: []string{"email must be a valid email"}}, http.StatusUnprocessableEntity, codeValidation},
		{"score", fmt.Errorf("%w: got 100", domain.ErrInvalidScore), http.StatusUnprocessableEntity, codeValidation},
		{"not found", domain.ErrUserNotFound, http.StatusNotFound, codeNotFound},
		{"bad request", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, codeBadRequest},
		{"route", echo.ErrNotFound, http.StatusNotFound, codeNotFound},
		{"method", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "MethodNotAllowed"},
		{"internal", errors.New("db exploded"), http.StatusInternalServerError, codeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			var body struct {
				Data   any `json:"data"`
				Errors []struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"errors"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Data != nil {
				t.Fatalf("expected null data, got %v", body.Data)
			}
			if len(body.Errors) != 1 || body.Errors[0].Code != tc.code {
				t.Fatalf("unexpected errors: %+v", body.Errors)
			}
		})
	}
}

func TestHTTPErrorHandler_DoesNotLeakInternalErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("pq: password authentication failed"), c)

	var body handler.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if len(body.Errors) != 1 || body.Errors[0].Message != "internal server error" {
		t.Fatalf("expected generic message, got %+v", body.Errors)
	}
}
