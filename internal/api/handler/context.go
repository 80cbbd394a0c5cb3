package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devshowcase/showcase-api/internal/api/middleware"
	"github.com/devshowcase/showcase-api/internal/core/domain"
)

// currentUser returns the caller injected by the auth middleware, or nil for
// anonymous requests on optional-auth routes.
func currentUser(c echo.Context) *domain.User {
	return middleware.CurrentUser(c)
}

// requireUser is the fast-fail check for routes mounted behind Auth. A nil
// user here means the route was wired without the middleware.
func requireUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, no token")
	}
	return user, nil
}

// bind decodes the request into req and runs the validator when one is
// registered on the echo instance.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}
