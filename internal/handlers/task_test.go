package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	dom "github.com/thinkeasyacademy/Dayplanner/internal/domain"
	"github.com/thinkeasyacademy/Dayplanner/internal/dto"
	"github.com/thinkeasyacademy/Dayplanner/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTaskID = "5b0e7a8c-3f7e-4a57-9a55-0c1f2d3e4f50"

// MockTaskService implements TaskService for testing
type MockTaskService struct {
	CreateFunc  func(ctx context.Context, userID int64, f service.TaskFields) (dom.Task, error)
	FilterFunc  func(ctx context.Context, userID int64, f service.Filter, day string) ([]dom.Task, error)
	SummaryFunc func(ctx context.Context, userID int64, day string) (service.Summary, error)
	GetFunc     func(ctx context.Context, userID int64, id string) (dom.Task, error)
	UpdateFunc  func(ctx context.Context, userID int64, id string, p service.TaskPatch) (dom.Task, error)
	ToggleFunc  func(ctx context.Context, userID int64, id string) (dom.Task, error)
	DeleteFunc  func(ctx context.Context, userID int64, id string) error
	SearchFunc  func(ctx context.Context, userID int64, q string) ([]dom.Task, error)
}

func (m *MockTaskService) Create(ctx context.Context, userID int64, f service.TaskFields) (dom.Task, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, f)
	}
	return dom.Task{}, errors.New("unexpected call")
}

func (m *MockTaskService) Filter(ctx context.Context, userID int64, f service.Filter, day string) ([]dom.Task, error) {
	if m.FilterFunc != nil {
		return m.FilterFunc(ctx, userID, f, day)
	}
	return nil, nil
}

func (m *MockTaskService) Summary(ctx context.Context, userID int64, day string) (service.Summary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, userID, day)
	}
	return service.Summary{}, nil
}

func (m *MockTaskService) GetByID(ctx context.Context, userID int64, id string) (dom.Task, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, id)
	}
	return dom.Task{}, service.ErrNotFound
}

func (m *MockTaskService) Update(ctx context.Context, userID int64, id string, p service.TaskPatch) (dom.Task, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, id, p)
	}
	return dom.Task{}, service.ErrNotFound
}

func (m *MockTaskService) Toggle(ctx context.Context, userID int64, id string) (dom.Task, error) {
	if m.ToggleFunc != nil {
		return m.ToggleFunc(ctx, userID, id)
	}
	return dom.Task{}, service.ErrNotFound
}

func (m *MockTaskService) Delete(ctx context.Context, userID int64, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return service.ErrNotFound
}

func (m *MockTaskService) Search(ctx context.Context, userID int64, q string) ([]dom.Task, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, userID, q)
	}
	return nil, nil
}

func setupTaskRouter(svc TaskService) http.Handler {
	r, g := newTestRouter()
	h := NewTaskHandler(svc)
	g.POST("/tasks", h.Create)
	g.GET("/tasks", h.List)
	g.GET("/tasks/summary", h.Summary)
	g.GET("/tasks/search", h.Search)
	g.GET("/tasks/:id", h.GetByID)
	g.PATCH("/tasks/:id", h.Update)
	g.DELETE("/tasks/:id", h.Delete)
	g.POST("/tasks/:id/toggle", h.Toggle)
	return r
}

func TestTaskHandler_Create(t *testing.T) {
	var got service.TaskFields
	svc := &MockTaskService{CreateFunc: func(_ context.Context, userID int64, f service.TaskFields) (dom.Task, error) {
		assert.Equal(t, testUserID, userID)
		got = f
		return dom.Task{ID: testTaskID, Type: dom.TaskTypeTask, Title: f.Title, Date: f.Date, Time: f.Time, ReminderMinutes: f.ReminderMinutes}, nil
	}}

	w := doJSON(setupTaskRouter(svc), http.MethodPost, "/api/v1/tasks", map[string]any{
		"title":            "Stand-up",
		"date":             "2025-03-10",
		"time":             "09:30",
		"reminder_minutes": 10,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.TaskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, testTaskID, resp.ID)
	assert.Equal(t, "09:30", resp.Time)
	require.NotNil(t, got.ReminderMinutes)
	assert.Equal(t, 10, *got.ReminderMinutes)
	assert.Equal(t, "2025-03-10", *got.Date)
}

func TestTaskHandler_CreateRejectsBadInput(t *testing.T) {
	called := false
	svc := &MockTaskService{CreateFunc: func(context.Context, int64, service.TaskFields) (dom.Task, error) {
		called = true
		return dom.Task{}, nil
	}}
	router := setupTaskRouter(svc)

	bodies := []map[string]any{
		{"date": "2025-03-10"},
		{"title": "a", "time": "25:00"},
		{"title": "a", "time": "9:5"},
		{"title": "a", "date": "10.03.2025"},
		{"title": "a", "reminder_minutes": -1},
		{"title": "a", "type": "event"},
	}
	for _, body := range bodies {
		w := doJSON(router, http.MethodPost, "/api/v1/tasks", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%v", body)
	}
	assert.False(t, called)
}

func TestTaskHandler_ServiceValidationIsBadRequest(t *testing.T) {
	svc := &MockTaskService{CreateFunc: func(context.Context, int64, service.TaskFields) (dom.Task, error) {
		return dom.Task{}, service.ErrInvalidProject
	}}
	w := doJSON(setupTaskRouter(svc), http.MethodPost, "/api/v1/tasks", map[string]any{"title": "a", "project_id": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "project not found")
}

func TestTaskHandler_List(t *testing.T) {
	svc := &MockTaskService{FilterFunc: func(_ context.Context, _ int64, f service.Filter, day string) ([]dom.Task, error) {
		assert.Equal(t, service.FilterTodo, f)
		assert.Equal(t, "2025-03-10", day)
		return []dom.Task{{ID: testTaskID, Title: "Stand-up"}}, nil
	}}
	router := setupTaskRouter(svc)

	w := doJSON(router, http.MethodGet, "/api/v1/tasks?filter=todo&date=2025-03-10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ListTasksResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Stand-up", resp.Items[0].Title)

	w = doJSON(router, http.MethodGet, "/api/v1/tasks?filter=overdue", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_Summary(t *testing.T) {
	svc := &MockTaskService{SummaryFunc: func(context.Context, int64, string) (service.Summary, error) {
		return service.Summary{Date: "2025-03-10", Todo: 2, Upcoming: 1}, nil
	}}
	w := doJSON(setupTaskRouter(svc), http.MethodGet, "/api/v1/tasks/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"date":"2025-03-10","todo":2,"upcoming":1,"unplanned":0,"notes":0,"completed":0}`, w.Body.String())
}

func TestTaskHandler_GetNotFound(t *testing.T) {
	w := doJSON(setupTaskRouter(&MockTaskService{}), http.MethodGet, "/api/v1/tasks/"+testTaskID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_UpdateClears(t *testing.T) {
	var got service.TaskPatch
	svc := &MockTaskService{UpdateFunc: func(_ context.Context, _ int64, id string, p service.TaskPatch) (dom.Task, error) {
		assert.Equal(t, testTaskID, id)
		got = p
		return dom.Task{ID: id, Title: "x"}, nil
	}}
	w := doJSON(setupTaskRouter(svc), http.MethodPatch, "/api/v1/tasks/"+testTaskID, map[string]any{
		"date":             "",
		"reminder_minutes": -1,
		"type":             "note",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, got.Date)
	assert.Equal(t, "", *got.Date)
	require.NotNil(t, got.ReminderMinutes)
	assert.Equal(t, service.ClearReminder, *got.ReminderMinutes)
	require.NotNil(t, got.Type)
	assert.Equal(t, dom.TaskTypeNote, *got.Type)
	assert.Nil(t, got.Title)
}

func TestTaskHandler_ToggleAndDelete(t *testing.T) {
	svc := &MockTaskService{
		ToggleFunc: func(_ context.Context, _ int64, id string) (dom.Task, error) {
			return dom.Task{ID: id, Completed: true}, nil
		},
		DeleteFunc: func(context.Context, int64, string) error { return nil },
	}
	router := setupTaskRouter(svc)

	w := doJSON(router, http.MethodPost, "/api/v1/tasks/"+testTaskID+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"completed":true`)

	w = doJSON(router, http.MethodDelete, "/api/v1/tasks/"+testTaskID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTaskHandler_InternalError(t *testing.T) {
	svc := &MockTaskService{SearchFunc: func(context.Context, int64, string) ([]dom.Task, error) {
		return nil, errors.New("db down")
	}}
	w := doJSON(setupTaskRouter(svc), http.MethodGet, "/api/v1/tasks/search?q=x", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
