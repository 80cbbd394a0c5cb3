package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/devshowcase/showcase-api/internal/core/domain"
	"github.com/devshowcase/showcase-api/internal/core/ports"
)

// Context keys set for authenticated requests. UserKey holds the *domain.User.
const (
	UserKey   = "user"
	UserIDKey = "user_id"
	RoleKey   = "role"
)

// TokenFromHeader extracts the token from an Authorization header value.
// Both "Bearer <token>" and a bare token are accepted.
func TokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return header
}

// Auth resolves the bearer token into a user and injects it into context.
// Requests without a valid token are rejected with 401.
func Auth(resolver ports.IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := TokenFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, no token")
			}

			user, err := resolver.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			setUser(c, user)
			return next(c)
		}
	}
}

// OptionalAuth injects the user when a valid token is present and otherwise
// lets the request through anonymously.
func OptionalAuth(resolver ports.IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := TokenFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			if token != "" {
				if user, err := resolver.Authenticate(c.Request().Context(), token); err == nil {
					setUser(c, user)
				}
			}
			return next(c)
		}
	}
}

func setUser(c echo.Context, user *domain.User) {
	c.Set(UserKey, user)
	c.Set(UserIDKey, user.ID)
	c.Set(RoleKey, string(user.Role))
}

// CurrentUser returns the user injected by Auth or OptionalAuth, or nil.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(UserKey).(*domain.User)
	return user
}
