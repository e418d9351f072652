package handlers

import (
	"context"
	"net/http"

	"github.com/thinkeasyacademy/Dayplanner/internal/auth"
	dom "github.com/thinkeasyacademy/Dayplanner/internal/domain"
	"github.com/thinkeasyacademy/Dayplanner/internal/dto"

	"github.com/gin-gonic/gin"
)

type ProjectService interface {
	List(ctx context.Context, userID int64) ([]dom.Project, error)
	Create(ctx context.Context, userID int64, name, color string) (dom.Project, error)
	Update(ctx context.Context, userID int64, id string, name, color *string) (dom.Project, error)
	Delete(ctx context.Context, userID int64, id string) error
}

type ProjectHandler struct {
	svc ProjectService
}

func NewProjectHandler(svc ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// Create godoc
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateProjectRequest  true  "Project body"
// @Success      201   {object}  dto.ProjectResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), req.Name, req.Color)
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, projectToResponse(p))
}

// List godoc
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListProjectsResponse
// @Failure      500  {object}  map[string]string
// @Router       /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.ProjectResponse, len(list))
	for i := range list {
		out[i] = projectToResponse(list[i])
	}
	c.JSON(http.StatusOK, dto.ListProjectsResponse{Items: out})
}

// Update godoc
// @Summary      Rename or recolor a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string                    true  "Project ID"
// @Param        body  body      dto.UpdateProjectRequest  true  "Partial update"
// @Success      200   {object}  dto.ProjectResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /projects/{id} [patch]
func (h *ProjectHandler) Update(c *gin.Context) {
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id"), req.Name, req.Color)
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, projectToResponse(p))
}

// Delete godoc
// @Summary      Delete a project; its tasks become unassigned
// @Tags         projects
// @Security     CookieAuth
// @Param        id   path  string  true  "Project ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id")); err != nil {
		taskError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
