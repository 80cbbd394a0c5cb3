package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devshowcase/showcase-api/internal/core/ports"
)

// AdminHandler serves moderation and user management. Every route sits behind
// Auth and RBAC(admin); the services re-check the policy.
type AdminHandler struct {
	admin    ports.AdminService
	projects ports.ProjectService
	comments ports.CommentService
}

func NewAdminHandler(admin ports.AdminService, projects ports.ProjectService, comments ports.CommentService) *AdminHandler {
	return &AdminHandler{admin: admin, projects: projects, comments: comments}
}

// DeleteComment handles DELETE /admin/comments/:id.
//
// @Summary      Remove any comment
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Comment id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/comments/{id} [delete]
func (h *AdminHandler) DeleteComment(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	if err := h.comments.Moderate(c.Request().Context(), c.Param("id"), user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Comment removed by admin"})
}

// Feature handles PUT /admin/projects/feature/:id.
//
// @Summary      Feature a project
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/projects/feature/{id} [put]
func (h *AdminHandler) Feature(c echo.Context) error {
	return h.setFeatured(c, true, "Project featured")
}

// Unfeature handles PUT /admin/projects/unfeature/:id.
//
// @Summary      Unfeature a project
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/projects/unfeature/{id} [put]
func (h *AdminHandler) Unfeature(c echo.Context) error {
	return h.setFeatured(c, false, "Project unfeatured")
}

func (h *AdminHandler) setFeatured(c echo.Context, featured bool, msg string) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	if err := h.projects.SetFeatured(c.Request().Context(), c.Param("id"), user, featured); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// Users handles GET /admin/users.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.User
// @Router       /admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	users, err := h.admin.Users(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// DeleteUser handles DELETE /admin/users/:id.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	if err := h.admin.DeleteUser(c.Request().Context(), c.Param("id"), user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User removed by admin"})
}

// Dashboard handles GET /admin/dashboard.
//
// @Summary      Platform counts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.DashboardStats
// @Router       /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	stats, err := h.admin.Dashboard(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
