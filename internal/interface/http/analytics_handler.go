package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	adminapp "github.com/careerbridge/careerbridge-api/internal/application"
	"github.com/careerbridge/careerbridge-api/pkg/response"
)

type AnalyticsHandler struct {
	Svc    *adminapp.AnalyticsService
	Logger *logrus.Logger
}

func NewAnalyticsHandler(svc *adminapp.AnalyticsService, logger *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{Svc: svc, Logger: logger}
}

// CrossRole returns the composed dashboard snapshot.
// GET /api/admin/analytics?start=RFC3339&end=RFC3339
func (h *AnalyticsHandler) CrossRole(c *gin.Context) {
	rng, err := parseRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error[any](c, http.StatusBadRequest, "invalid time range", err.Error()))
		return
	}

	snap := h.Svc.GetCrossRoleAnalytics(c.Request.Context(), rng)
	c.JSON(http.StatusOK, response.Success(c, http.StatusOK, snap, "analytics snapshot", nil))
}

// Realtime returns the live infrastructure sample.
// GET /api/admin/metrics/realtime
func (h *AnalyticsHandler) Realtime(c *gin.Context) {
	m := h.Svc.GetRealtimeMetrics(c.Request.Context())
	c.JSON(http.StatusOK, response.Success(c, http.StatusOK, m, "realtime metrics", nil))
}

func parseRange(c *gin.Context) (adminapp.TimeRange, error) {
	var rng adminapp.TimeRange
	if raw := c.Query("start"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return rng, err
		}
		rng.Start = t
	}
	if raw := c.Query("end"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return rng, err
		}
		rng.End = t
	}
	return rng, nil
}
