package dto

// OpenOverlayRequest is the JSON body for POST /session/overlays.
type OpenOverlayRequest struct {
	Surface string `json:"surface" binding:"required"`
}

// PermissionRequest is the JSON body for PUT /session/notification-permission.
type PermissionRequest struct {
	Permission string `json:"permission" binding:"required,oneof=default granted denied unsupported"`
}

type BackResponse struct {
	// Handled is false when nothing was open and the platform default applies.
	Handled bool `json:"handled"`
}

type SessionStateResponse struct {
	ActiveReminder *TaskResponse `json:"active_reminder"`
	Overlays       []string      `json:"overlays"`
	FiredCount     int           `json:"fired_count"`
	Permission     string        `json:"permission"`
}
