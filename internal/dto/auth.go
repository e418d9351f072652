package dto

type LoginRequest struct {
	Username string `json:"username" binding:"required,max=120"`
	Password string `json:"password" binding:"required,max=72"`
}

// RegisterRequest caps the password at 72 bytes, the most bcrypt reads.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=1,max=120"`
	Password string `json:"password" binding:"required,min=1,max=72"`
}

// AccountResponse identifies the signed-in user after login or register.
type AccountResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
