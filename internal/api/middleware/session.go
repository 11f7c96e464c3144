package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/quizm/users-service/internal/core/domain"
	"github.com/quizm/users-service/internal/core/ports"
)

const userContextKey = "user"

// Session resolves the session cookie to an identity and injects it into the
// context. Requests without a usable session never reach next.
func Session(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(domain.SessionCookieName)
			if err != nil || cookie.Value == "" {
				return domain.ErrUnauthenticated
			}

			user, err := auth.Resolve(c.Request().Context(), cookie.Value)
			if err != nil {
				return err
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the identity injected by Session.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(userContextKey).(*domain.User)
	return user, ok && user != nil
}
