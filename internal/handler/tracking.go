package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trackit/internal/repository"
	"trackit/internal/service"
)

type TrackingHandler struct {
	Repo    repository.Repository
	Control *service.TrackingControl
	Logger  *zap.Logger
}

func (h *TrackingHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/tracking")
	group.GET("", h.status)
	group.POST("/start", h.start)
	group.POST("/stop", h.stop)
}

// @Summary Tracking status
// @Tags tracking
// @Success 200 {object} apiResponse
// @Router /api/v1/tracking [get]
func (h *TrackingHandler) status(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	tracking, err := h.Repo.GetTrackingState(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{
		"is_tracking":  tracking,
		"loop_running": h.Control.IsRunning(),
	}, nil)
}

// @Summary Start tracking
// @Description Flips the tracking flag on and launches the polling loop unless one is already running.
// @Tags tracking
// @Success 200 {object} apiResponse
// @Router /api/v1/tracking/start [post]
func (h *TrackingHandler) start(c *gin.Context) {
	if h.Control == nil {
		Error(c, http.StatusInternalServerError, "control unavailable", nil)
		return
	}
	launched, err := h.Control.Start(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("start tracking failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{
		"is_tracking":   true,
		"loop_launched": launched,
	}, nil)
}

// @Summary Stop tracking
// @Description Flips the tracking flag off; the loop exits at its next check.
// @Tags tracking
// @Success 200 {object} apiResponse
// @Router /api/v1/tracking/stop [post]
func (h *TrackingHandler) stop(c *gin.Context) {
	if h.Control == nil {
		Error(c, http.StatusInternalServerError, "control unavailable", nil)
		return
	}
	if err := h.Control.Stop(c.Request.Context()); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("stop tracking failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"is_tracking": false}, nil)
}
