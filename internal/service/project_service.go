package service

import (
	"context"
	"errors"
	"strings"

	dom "github.com/thinkeasyacademy/Dayplanner/internal/domain"
	"github.com/thinkeasyacademy/Dayplanner/internal/repo"

	"github.com/google/uuid"
)

var ErrEmptyName = errors.New("name is required")

// DefaultProjectColor is used when a project is created without a color.
const DefaultProjectColor = "#6366f1"

// ProjectService manages the projects a user groups tasks into.
type ProjectService struct {
	repo  repo.ProjectRepo
	tasks *TaskService
}

// NewProjectService returns a ProjectService. tasks, if set, has its cache
// invalidated when a deleted project unassigns tasks.
func NewProjectService(r repo.ProjectRepo, tasks *TaskService) *ProjectService {
	return &ProjectService{repo: r, tasks: tasks}
}

func (s *ProjectService) List(ctx context.Context, userID int64) ([]dom.Project, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *ProjectService) Create(ctx context.Context, userID int64, name, color string) (dom.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return dom.Project{}, ErrEmptyName
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = DefaultProjectColor
	}
	return s.repo.Create(ctx, dom.Project{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
		Color:  color,
	})
}

func (s *ProjectService) Update(ctx context.Context, userID int64, id string, name, color *string) (dom.Project, error) {
	if !validID(id) {
		return dom.Project{}, ErrNotFound
	}
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return dom.Project{}, mapReadErr(err)
	}
	newName, newColor := existing.Name, existing.Color
	if name != nil {
		newName = strings.TrimSpace(*name)
		if newName == "" {
			return dom.Project{}, ErrEmptyName
		}
	}
	if color != nil && strings.TrimSpace(*color) != "" {
		newColor = strings.TrimSpace(*color)
	}
	p, err := s.repo.Update(ctx, userID, id, newName, newColor)
	if err != nil {
		return dom.Project{}, mapReadErr(err)
	}
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, userID int64, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return mapReadErr(err)
	}
	if s.tasks != nil {
		s.tasks.Invalidate(ctx, userID)
	}
	return nil
}
