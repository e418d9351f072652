package dto

import "time"

type CreateProjectRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=120"`
	Color string `json:"color" binding:"max=32"`
}

type UpdateProjectRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=120"`
	Color *string `json:"color" binding:"omitempty,max=32"`
}

type ProjectResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

type ListProjectsResponse struct {
	Items []ProjectResponse `json:"items"`
}
