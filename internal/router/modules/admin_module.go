package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/careerbridge/careerbridge-api/internal/container"
	handlers "github.com/careerbridge/careerbridge-api/internal/interface/http"
	"github.com/careerbridge/careerbridge-api/internal/interface/middleware"
	"github.com/careerbridge/careerbridge-api/pkg/helpers"
)

// AdminModule wires the moderation and analytics routes. Everything lives
// under /api/admin behind session auth plus the ADMIN role gate.
// POST /api/admin/accounts/:id/actions
// GET  /api/admin/analytics
// GET  /api/admin/metrics/realtime

type AdminModule struct {
	Admin     *handlers.AdminHandler
	Analytics *handlers.AnalyticsHandler
	JWT       *helpers.JWTManager
}

func NewAdminModule(admin *handlers.AdminHandler, analytics *handlers.AnalyticsHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Admin: admin, Analytics: analytics, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	grp := rg.Group("/admin")
	grp.Use(
		middleware.Auth(container.GetRedis(), m.JWT),
		middleware.RequireAdmin(),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()),
	)
	{
		grp.POST("/accounts/:id/actions", m.Admin.ExecuteAction)
		grp.GET("/analytics", m.Analytics.CrossRole)
		grp.GET("/metrics/realtime", m.Analytics.Realtime)
	}
}
