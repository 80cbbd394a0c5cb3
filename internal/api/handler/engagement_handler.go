package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devshowcase/showcase-api/internal/api/metrics"
	"github.com/devshowcase/showcase-api/internal/core/domain"
	"github.com/devshowcase/showcase-api/internal/core/ports"
)

// EngagementHandler serves likes and bookmarks.
type EngagementHandler struct {
	service ports.EngagementService
}

func NewEngagementHandler(service ports.EngagementService) *EngagementHandler {
	return &EngagementHandler{service: service}
}

var engagementMessages = map[domain.EngagementKind][2]string{
	domain.KindLike:     {"Project liked", "Project unliked"},
	domain.KindBookmark: {"Project bookmarked", "Project unbookmarked"},
}

func (h *EngagementHandler) add(c echo.Context, kind domain.EngagementKind) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Add(c.Request().Context(), kind, c.Param("projectId"), user); err != nil {
		return err
	}

	metrics.EngagementsTotal.WithLabelValues(string(kind), "add").Inc()
	return c.JSON(http.StatusCreated, messageResponse{Message: engagementMessages[kind][0]})
}

func (h *EngagementHandler) remove(c echo.Context, kind domain.EngagementKind) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Remove(c.Request().Context(), kind, c.Param("projectId"), user); err != nil {
		return err
	}

	metrics.EngagementsTotal.WithLabelValues(string(kind), "remove").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: engagementMessages[kind][1]})
}

// Like handles POST /likes/:projectId.
//
// @Summary      Like a project
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project id"
// @Success      201        {object}  messageResponse
// @Failure      400        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /likes/{projectId} [post]
func (h *EngagementHandler) Like(c echo.Context) error {
	return h.add(c, domain.KindLike)
}

// Unlike handles DELETE /likes/:projectId.
//
// @Summary      Unlike a project
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project id"
// @Success      200        {object}  messageResponse
// @Failure      400        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /likes/{projectId} [delete]
func (h *EngagementHandler) Unlike(c echo.Context) error {
	return h.remove(c, domain.KindLike)
}

// LikeStatus handles GET /likes/:projectId.
//
// @Summary      Like count and the caller's like state
// @Tags         likes
// @Produce      json
// @Param        projectId  path      string  true  "Project id"
// @Success      200        {object}  ports.LikeStatus
// @Failure      404        {object}  errorResponse
// @Router       /likes/{projectId} [get]
func (h *EngagementHandler) LikeStatus(c echo.Context) error {
	status, err := h.service.LikeStatus(c.Request().Context(), c.Param("projectId"), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, status)
}

// Bookmark handles POST /bookmarks/:projectId.
//
// @Summary      Bookmark a project
// @Tags         bookmarks
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project id"
// @Success      201        {object}  messageResponse
// @Failure      400        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /bookmarks/{projectId} [post]
func (h *EngagementHandler) Bookmark(c echo.Context) error {
	return h.add(c, domain.KindBookmark)
}

// Unbookmark handles DELETE /bookmarks/:projectId.
//
// @Summary      Remove a bookmark
// @Tags         bookmarks
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project id"
// @Success      200        {object}  messageResponse
// @Failure      400        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /bookmarks/{projectId} [delete]
func (h *EngagementHandler) Unbookmark(c echo.Context) error {
	return h.remove(c, domain.KindBookmark)
}

// Bookmarks handles GET /bookmarks.
//
// @Summary      List own bookmarks
// @Tags         bookmarks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.BookmarkView
// @Router       /bookmarks [get]
func (h *EngagementHandler) Bookmarks(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	bookmarks, err := h.service.Bookmarks(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookmarks)
}
