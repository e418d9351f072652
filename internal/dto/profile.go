package dto

// ProfileRequest is the JSON body for PUT /profile.
type ProfileRequest struct {
	Name         string  `json:"name" binding:"max=120"`
	Email        string  `json:"email" binding:"omitempty,email"`
	Avatar       *string `json:"avatar" binding:"omitempty,max=2048"`
	ReminderTone string  `json:"reminder_tone" binding:"max=64"`
	DarkMode     bool    `json:"dark_mode"`
}

type ProfileResponse struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Avatar       *string `json:"avatar"`
	ReminderTone string  `json:"reminder_tone"`
	DarkMode     bool    `json:"dark_mode"`
}
