package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devshowcase/showcase-api/internal/api/metrics"
	"github.com/devshowcase/showcase-api/internal/core/ports"
)

// ProjectHandler handles HTTP requests for projects.
type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// Create handles POST /projects.
//
// @Summary      Create a project
// @Description  Tags are comma-delimited. When none are given the server suggests them.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProjectRequest  true  "Project"
// @Success      201   {object}  domain.Project
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req createProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := h.service.Create(c.Request().Context(), ports.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		DriveFileID: req.DriveFileID,
		Media:       req.Media,
		Tags:        req.Tags,
		CategoryID:  req.Category,
		Visibility:  req.Visibility,
		Author:      user,
	})
	if err != nil {
		return err
	}

	metrics.ProjectsCreatedTotal.WithLabelValues(string(project.Visibility)).Inc()
	return c.JSON(http.StatusCreated, project)
}

// List handles GET /projects.
//
// @Summary      List public projects
// @Tags         projects
// @Produce      json
// @Param        search    query     string  false  "Case-insensitive match on title, description or tags"
// @Param        category  query     string  false  "Category id"
// @Param        tags      query     string  false  "Comma-delimited tags, any-of"
// @Param        sortBy    query     string  false  "date, likes or popularity"
// @Param        page      query     int     false  "Page, 1-based"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Success      200       {object}  listProjectsResponse
// @Failure      400       {object}  errorResponse
// @Router       /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	var q listProjectsQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	res, err := h.service.List(c.Request().Context(), ports.ListProjectsInput{
		Search:     q.Search,
		CategoryID: q.Category,
		Tags:       q.Tags,
		SortBy:     q.SortBy,
		Page:       q.Page,
		Limit:      q.Limit,
		Viewer:     currentUser(c),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listProjectsResponse{
		Projects:   res.Items,
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	})
}

// Get handles GET /projects/:id. Each read counts as a view.
//
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  ports.ProjectDetail
// @Failure      404  {object}  errorResponse
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	detail, err := h.service.Get(c.Request().Context(), c.Param("id"), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Featured handles GET /projects/featured.
//
// @Summary      List featured projects
// @Tags         projects
// @Produce      json
// @Success      200  {array}  ports.ProjectView
// @Router       /projects/featured [get]
func (h *ProjectHandler) Featured(c echo.Context) error {
	projects, err := h.service.Featured(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

// Authors handles GET /projects/authors.
//
// @Summary      List top authors by project count
// @Tags         projects
// @Produce      json
// @Success      200  {array}  ports.AuthorStats
// @Router       /projects/authors [get]
func (h *ProjectHandler) Authors(c echo.Context) error {
	authors, err := h.service.Authors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authors)
}

// Update handles PUT /projects/:id. Omitted fields keep their stored value.
//
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Project id"
// @Param        body  body      updateProjectRequest  true  "Fields to change"
// @Success      200   {object}  domain.Project
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req updateProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := h.service.Update(c.Request().Context(), c.Param("id"), user, ports.UpdateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		DriveFileID: req.DriveFileID,
		Media:       req.Media,
		Tags:        req.Tags,
		CategoryID:  req.Category,
		Visibility:  req.Visibility,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// Delete handles DELETE /projects/:id.
//
// @Summary      Delete a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Project removed"})
}

// SuggestTags handles POST /projects/tags.
//
// @Summary      Suggest tags for a draft project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      suggestTagsRequest  true  "Draft title and description"
// @Success      200   {object}  suggestTagsResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /projects/tags [post]
func (h *ProjectHandler) SuggestTags(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req suggestTagsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	tags, err := h.service.SuggestTags(c.Request().Context(), user, req.Title, req.Description)
	if err != nil {
		return err
	}
	if tags == nil {
		tags = []string{}
	}
	return c.JSON(http.StatusOK, suggestTagsResponse{Data: tags})
}
