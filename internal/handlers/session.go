package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/thinkeasyacademy/Dayplanner/internal/auth"
	dom "github.com/thinkeasyacademy/Dayplanner/internal/domain"
	"github.com/thinkeasyacademy/Dayplanner/internal/dto"
	"github.com/thinkeasyacademy/Dayplanner/internal/navstack"
	"github.com/thinkeasyacademy/Dayplanner/internal/platform"
	"github.com/thinkeasyacademy/Dayplanner/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	// EventSessionState carries the full state when a client connects.
	EventSessionState = "session.state"
	eventPing         = "ping"

	defaultKeepAlive = 25 * time.Second
)

// SessionHandler exposes the reminder runtime of the caller's session: an
// event stream of platform effects and the signals the client reports back.
type SessionHandler struct {
	runtimes  *session.Manager
	profiles  ProfileService
	keepAlive time.Duration
}

func NewSessionHandler(runtimes *session.Manager, profiles ProfileService) *SessionHandler {
	return &SessionHandler{runtimes: runtimes, profiles: profiles, keepAlive: defaultKeepAlive}
}

// handle returns the runtime of the current session, starting it with the
// user's reminder tone on first use.
func (h *SessionHandler) handle(c *gin.Context) *session.Handle {
	sessionID := auth.SessionIDFromContext(c)
	userID := auth.UserIDFromContext(c)
	if hd, ok := h.runtimes.Get(sessionID); ok && hd.UserID == userID {
		return hd
	}
	tone := dom.DefaultReminderTone
	if p, err := h.profiles.Get(c.Request.Context(), userID); err == nil {
		tone = p.ReminderTone
	}
	return h.runtimes.Attach(sessionID, userID, tone)
}

// Events godoc
// @Summary      Stream of reminder and navigation effects (server-sent events)
// @Description  Events: session.state, alarm.play, alarm.stop, notification.show,
// @Description  notification.request_permission, history.push, history.back,
// @Description  reminder.active, overlay.closed, ping. A new stream replaces the previous one.
// @Tags         session
// @Produce      text/event-stream
// @Security     CookieAuth
// @Success      200
// @Router       /session/events [get]
func (h *SessionHandler) Events(c *gin.Context) {
	hd := h.handle(c)
	events, disconnect, err := hd.Runtime.Connect(c.Request.Context(), hd.Outbox)
	if err != nil {
		sessionError(c, err)
		return
	}
	defer disconnect()

	st, err := h.state(c, hd)
	if err != nil {
		sessionError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent(EventSessionState, st)
	c.Writer.Flush()

	if hd.Outbox.Permission() == platform.PermissionDefault {
		_ = hd.Outbox.RequestPermission(c.Request.Context())
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()
	c.Stream(func(io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, ev.Data)
			return true
		case t := <-ticker.C:
			c.SSEvent(eventPing, t.Unix())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// State godoc
// @Summary      Active reminder and open overlays
// @Tags         session
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.SessionStateResponse
// @Failure      503  {object}  map[string]string
// @Router       /session/state [get]
func (h *SessionHandler) State(c *gin.Context) {
	st, err := h.state(c, h.handle(c))
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Back godoc
// @Summary      Report a back gesture (popstate)
// @Description  Closes the top-most overlay. handled=false means nothing was open and the platform default applies.
// @Tags         session
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.BackResponse
// @Failure      503  {object}  map[string]string
// @Router       /session/back [post]
func (h *SessionHandler) Back(c *gin.Context) {
	handled, err := h.handle(c).Runtime.Back(c.Request.Context())
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BackResponse{Handled: handled})
}

// OpenOverlay godoc
// @Summary      Register an overlay the client opened
// @Tags         session
// @Accept       json
// @Security     CookieAuth
// @Param        body  body  dto.OpenOverlayRequest  true  "Surface"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /session/overlays [post]
func (h *SessionHandler) OpenOverlay(c *gin.Context) {
	var req dto.OpenOverlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind, err := navstack.ParseKind(req.Surface)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.handle(c).Runtime.OpenOverlay(c.Request.Context(), kind); err != nil {
		sessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CloseOverlay godoc
// @Summary      Close an overlay explicitly (close button, save)
// @Tags         session
// @Produce      json
// @Security     CookieAuth
// @Param        surface  path      string  true  "Surface kind"
// @Success      200      {object}  map[string]bool
// @Failure      400      {object}  map[string]string
// @Failure      503      {object}  map[string]string
// @Router       /session/overlays/{surface} [delete]
func (h *SessionHandler) CloseOverlay(c *gin.Context) {
	kind, err := navstack.ParseKind(c.Param("surface"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	closed, err := h.handle(c).Runtime.CloseOverlay(c.Request.Context(), kind)
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"closed": closed})
}

// DismissReminder godoc
// @Summary      Dismiss the active reminder
// @Tags         session
// @Security     CookieAuth
// @Success      204
// @Failure      503  {object}  map[string]string
// @Router       /session/reminder/dismiss [post]
func (h *SessionHandler) DismissReminder(c *gin.Context) {
	if err := h.handle(c).Runtime.DismissReminder(c.Request.Context()); err != nil {
		sessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ViewReminder godoc
// @Summary      Dismiss the active reminder and open its task in the editor
// @Tags         session
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.TaskResponse
// @Failure      404  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /session/reminder/view [post]
func (h *SessionHandler) ViewReminder(c *gin.Context) {
	t, err := h.handle(c).Runtime.ViewReminder(c.Request.Context())
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// SetPermission godoc
// @Summary      Report the browser notification permission
// @Tags         session
// @Accept       json
// @Security     CookieAuth
// @Param        body  body  dto.PermissionRequest  true  "Permission"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Router       /session/notification-permission [put]
func (h *SessionHandler) SetPermission(c *gin.Context) {
	var req dto.PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := platform.ParsePermission(req.Permission)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.handle(c).Outbox.SetPermission(p)
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) state(c *gin.Context, hd *session.Handle) (dto.SessionStateResponse, error) {
	st, err := hd.Runtime.State(c.Request.Context())
	if err != nil {
		return dto.SessionStateResponse{}, err
	}
	out := dto.SessionStateResponse{
		Overlays:   make([]string, len(st.Overlays)),
		FiredCount: st.FiredCount,
		Permission: string(hd.Outbox.Permission()),
	}
	for i, k := range st.Overlays {
		out.Overlays[i] = string(k)
	}
	if st.ActiveReminder != nil {
		r := taskToResponse(*st.ActiveReminder)
		out.ActiveReminder = &r
	}
	return out, nil
}

func sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNoActiveReminder):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrReservedSurface):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session ended, retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
