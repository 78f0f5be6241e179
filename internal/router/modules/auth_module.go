package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/careerbridge/careerbridge-api/internal/container"
	handlers "github.com/careerbridge/careerbridge-api/internal/interface/http"
	"github.com/careerbridge/careerbridge-api/internal/interface/middleware"
	"github.com/careerbridge/careerbridge-api/pkg/helpers"
)

// AuthModule wires the admin sign-in routes.
// Public: POST /api/login, POST /api/refresh (the refresh cookie is the credential)
// Protected: POST /api/logout

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil) // 10 req/min per IP

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", loginLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.POST("/logout", m.Handler.Logout)
}
