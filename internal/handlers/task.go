package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/thinkeasyacademy/Dayplanner/internal/auth"
	dom "github.com/thinkeasyacademy/Dayplanner/internal/domain"
	"github.com/thinkeasyacademy/Dayplanner/internal/dto"
	"github.com/thinkeasyacademy/Dayplanner/internal/service"

	"github.com/gin-gonic/gin"
)

// TaskService is the part of *service.TaskService the handlers use.
type TaskService interface {
	Create(ctx context.Context, userID int64, f service.TaskFields) (dom.Task, error)
	Filter(ctx context.Context, userID int64, f service.Filter, day string) ([]dom.Task, error)
	Summary(ctx context.Context, userID int64, day string) (service.Summary, error)
	GetByID(ctx context.Context, userID int64, id string) (dom.Task, error)
	Update(ctx context.Context, userID int64, id string, p service.TaskPatch) (dom.Task, error)
	Toggle(ctx context.Context, userID int64, id string) (dom.Task, error)
	Delete(ctx context.Context, userID int64, id string) error
	Search(ctx context.Context, userID int64, q string) ([]dom.Task, error)
}

type TaskHandler struct {
	svc TaskService
}

func NewTaskHandler(svc TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Create godoc
// @Summary      Create a task or note
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), service.TaskFields{
		ProjectID:       req.ProjectID,
		Type:            dom.TaskType(req.Type),
		Title:           req.Title,
		Description:     req.Description,
		Details:         req.Details,
		IsBigNote:       req.IsBigNote,
		Date:            req.Date,
		Time:            req.Time,
		ReminderMinutes: req.ReminderMinutes,
	})
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskToResponse(t))
}

// List godoc
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        filter  query     string  false  "all, todo, upcoming, unplanned or notes"
// @Param        date    query     string  false  "Day (YYYY-MM-DD), default today"
// @Success      200     {object}  dto.ListTasksResponse
// @Failure      400     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	f, err := service.ParseFilter(c.Query("filter"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	list, err := h.svc.Filter(c.Request.Context(), auth.UserIDFromContext(c), f, c.Query("date"))
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTasksResponse{Items: tasksToResponses(list)})
}

// Summary godoc
// @Summary      Timeline counters
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        date  query     string  false  "Day (YYYY-MM-DD), default today"
// @Success      200   {object}  dto.SummaryResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks/summary [get]
func (h *TaskHandler) Summary(c *gin.Context) {
	s, err := h.svc.Summary(c.Request.Context(), auth.UserIDFromContext(c), c.Query("date"))
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SummaryResponse{
		Date:      s.Date,
		Todo:      s.Todo,
		Upcoming:  s.Upcoming,
		Unplanned: s.Unplanned,
		Notes:     s.Notes,
		Completed: s.Completed,
	})
}

// GetByID godoc
// @Summary      Get a task by ID
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	t, err := h.svc.GetByID(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Update godoc
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string                 true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Partial update"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patch := service.TaskPatch{
		ProjectID:       req.ProjectID,
		Title:           req.Title,
		Description:     req.Description,
		Details:         req.Details,
		IsBigNote:       req.IsBigNote,
		Date:            req.Date,
		Time:            req.Time,
		ReminderMinutes: req.ReminderMinutes,
		Completed:       req.Completed,
	}
	if req.Type != nil {
		tt := dom.TaskType(*req.Type)
		patch.Type = &tt
	}
	t, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id"), patch)
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Toggle godoc
// @Summary      Flip the completed flag
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks/{id}/toggle [post]
func (h *TaskHandler) Toggle(c *gin.Context) {
	t, err := h.svc.Toggle(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Security     CookieAuth
// @Param        id   path  string  true  "Task ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id")); err != nil {
		taskError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search godoc
// @Summary      Search tasks by title, description or details
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        q    query     string  true  "Search query"
// @Success      200  {object}  dto.ListTasksResponse
// @Failure      500  {object}  map[string]string
// @Router       /tasks/search [get]
func (h *TaskHandler) Search(c *gin.Context) {
	list, err := h.svc.Search(c.Request.Context(), auth.UserIDFromContext(c), c.Query("q"))
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTasksResponse{Items: tasksToResponses(list)})
}

var taskValidationErrors = []error{
	service.ErrEmptyTitle,
	service.ErrInvalidTime,
	service.ErrInvalidDate,
	service.ErrInvalidReminder,
	service.ErrInvalidType,
	service.ErrInvalidProject,
	service.ErrInvalidFilter,
	service.ErrEmptyName,
}

// taskError maps service errors to HTTP responses.
func taskError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	for _, target := range taskValidationErrors {
		if errors.Is(err, target) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
