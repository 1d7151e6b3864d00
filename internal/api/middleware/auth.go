package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/notesaas/notes-api/internal/api/metrics"
	"github.com/notesaas/notes-api/internal/core/domain"
	"github.com/notesaas/notes-api/internal/core/ports"
)

// Authenticate validates the bearer token and injects the identity into the
// context. A missing credential is domain.ErrUnauthenticated; a credential
// that fails verification is domain.ErrInvalidToken.
func Authenticate(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				return domain.ErrUnauthenticated
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				return domain.ErrUnauthenticated
			}

			identity, err := tokens.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
				return domain.ErrInvalidToken
			}

			SetIdentity(c, identity)
			return next(c)
		}
	}
}
