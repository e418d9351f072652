package handlers

import (
	dom "github.com/thinkeasyacademy/Dayplanner/internal/domain"
	"github.com/thinkeasyacademy/Dayplanner/internal/dto"
)

func taskToResponse(t dom.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:              t.ID,
		ProjectID:       t.ProjectID,
		Type:            string(t.Type),
		Title:           t.Title,
		Description:     t.Description,
		Details:         t.Details,
		IsBigNote:       t.IsBigNote,
		Date:            t.Date,
		Time:            t.Time,
		ReminderMinutes: t.ReminderMinutes,
		Completed:       t.Completed,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func tasksToResponses(list []dom.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(list))
	for i := range list {
		out[i] = taskToResponse(list[i])
	}
	return out
}

func projectToResponse(p dom.Project) dto.ProjectResponse {
	return dto.ProjectResponse{ID: p.ID, Name: p.Name, Color: p.Color, CreatedAt: p.CreatedAt}
}

func profileToResponse(p dom.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		Name:         p.Name,
		Email:        p.Email,
		Avatar:       p.Avatar,
		ReminderTone: p.ReminderTone,
		DarkMode:     p.DarkMode,
	}
}
