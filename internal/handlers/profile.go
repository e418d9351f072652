package handlers

import (
	"context"
	"net/http"

	"github.com/thinkeasyacademy/Dayplanner/internal/auth"
	dom "github.com/thinkeasyacademy/Dayplanner/internal/domain"
	"github.com/thinkeasyacademy/Dayplanner/internal/dto"

	"github.com/gin-gonic/gin"
)

type ProfileService interface {
	Get(ctx context.Context, userID int64) (dom.Profile, error)
	Save(ctx context.Context, p dom.Profile) (dom.Profile, error)
}

type ProfileHandler struct {
	svc ProfileService
}

func NewProfileHandler(svc ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// Get godoc
// @Summary      Get the profile
// @Tags         profile
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ProfileResponse
// @Failure      500  {object}  map[string]string
// @Router       /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profileToResponse(p))
}

// Put godoc
// @Summary      Replace the profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.ProfileRequest  true  "Profile"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /profile [put]
func (h *ProfileHandler) Put(c *gin.Context) {
	var req dto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Save(c.Request.Context(), dom.Profile{
		UserID:       auth.UserIDFromContext(c),
		Name:         req.Name,
		Email:        req.Email,
		Avatar:       req.Avatar,
		ReminderTone: req.ReminderTone,
		DarkMode:     req.DarkMode,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profileToResponse(p))
}
