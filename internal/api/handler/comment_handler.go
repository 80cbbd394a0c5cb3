package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devshowcase/showcase-api/internal/core/ports"
)

// CommentHandler handles HTTP requests for project comments.
type CommentHandler struct {
	service  ports.CommentService
	notifier ports.CommentNotifier
}

// NewCommentHandler builds the handler. A nil notifier disables realtime fan-out.
func NewCommentHandler(service ports.CommentService, notifier ports.CommentNotifier) *CommentHandler {
	return &CommentHandler{service: service, notifier: notifier}
}

// List handles GET /comments/:projectId.
//
// @Summary      List a project's comments, newest first
// @Tags         comments
// @Produce      json
// @Param        projectId  path      string  true  "Project id"
// @Success      200        {array}   ports.CommentView
// @Failure      404        {object}  errorResponse
// @Router       /comments/{projectId} [get]
func (h *CommentHandler) List(c echo.Context) error {
	comments, err := h.service.List(c.Request().Context(), c.Param("projectId"), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

// Add handles POST /comments/:projectId. Subscribers of the project room are
// notified after the 201 has been written.
//
// @Summary      Comment on a project
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string          true  "Project id"
// @Param        body       body      commentRequest  true  "Comment"
// @Success      201        {object}  ports.CommentView
// @Failure      400        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /comments/{projectId} [post]
func (h *CommentHandler) Add(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	var content string
	if req.Content != nil {
		content = *req.Content
	}
	view, err := h.service.Add(c.Request().Context(), c.Param("projectId"), user, content)
	if err != nil {
		return err
	}
	if err := c.JSON(http.StatusCreated, view); err != nil {
		return err
	}
	if h.notifier != nil {
		h.notifier.CommentCreated(*view)
	}
	return nil
}

// Edit handles PUT /comments/:id.
//
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Comment id"
// @Param        body  body      commentRequest  true  "New content"
// @Success      200   {object}  ports.CommentView
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /comments/{id} [put]
func (h *CommentHandler) Edit(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	view, err := h.service.Edit(c.Request().Context(), c.Param("id"), user, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Delete handles DELETE /comments/:id.
//
// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Comment id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Comment removed"})
}
