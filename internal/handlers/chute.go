package handlers

import (
	"net/http"

	"parachute_control/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK       = "ok"
	statusReleased = "released"
	statusRejected = "rejected"
	statusEnabled  = "enabled_set"

	errSetEnabled = "failed to change enabled state"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Respond with a status string plus the current subsystem snapshot.
func (h *Handler) respondWithStatus(c *gin.Context, httpCode int, status string, extra gin.H) {
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	resp["state"] = h.services.Monitoring.Status()
	c.JSON(httpCode, resp)
}

// Request DTO for enable/disable. Pointer so that "enabled": false binds.
type enableRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// EnableRequest is an exported model for Swagger docs of the enable payload.
type EnableRequest struct {
	// Whether parachute release is armed
	Enabled bool `json:"enabled" example:"true"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Enable or disable parachute release
// @Description  Disabling aborts any pending release sequence and clears the released latch
// @Tags         chute
// @Accept       json
// @Produce      json
// @Param        body  body   EnableRequest  true  "Enable payload"
// @Success      200   {object}  map[string]interface{}  "status, state"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/chute/enable [post]
// @Security     BearerAuth
func (h *Handler) enableChute(c *gin.Context) {
	var req enableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}
	ctx := c.Request.Context()
	if err := h.services.Chute.SetEnabled(ctx, *req.Enabled); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errSetEnabled, "chute_enable_failed", err, "enabled", *req.Enabled)
		return
	}
	h.respondWithStatus(c, http.StatusOK, statusEnabled, gin.H{"enabled": *req.Enabled})
}

// @Summary      Manual parachute release
// @Description  Pilot-initiated release; validated against flight state and altitude bounds
// @Tags         chute
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, state"
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]interface{}  "status, reason, state"
// @Router       /api/v1/chute/release [post]
// @Security     BearerAuth
func (h *Handler) releaseChute(c *gin.Context) {
	ctx := c.Request.Context()
	outcome := h.services.Chute.ManualRelease(ctx)
	if outcome == service.Released {
		h.respondWithStatus(c, http.StatusOK, statusReleased, gin.H{})
		return
	}
	h.respondWithStatus(c, http.StatusConflict, statusRejected, gin.H{"reason": outcome.String()})
}

// @Summary      Get deployment status
// @Tags         chute
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/chute/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.Status())
}

// @Summary      Get effective parameters
// @Tags         chute
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/chute/params [get]
// @Security     BearerAuth
func (h *Handler) getParams(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Chute.Params())
}
