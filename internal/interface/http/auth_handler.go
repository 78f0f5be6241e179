package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	adminapp "github.com/careerbridge/careerbridge-api/internal/application"
	"github.com/careerbridge/careerbridge-api/pkg/helpers"
	"github.com/careerbridge/careerbridge-api/pkg/response"
	"github.com/careerbridge/careerbridge-api/pkg/validation"
)

type AuthHandler struct {
	Svc     *adminapp.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *adminapp.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err)))
		return
	}

	acct, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil))
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	c.JSON(http.StatusOK, response.Success(c, http.StatusOK, gin.H{
		"id":    acct.ID,
		"email": acct.Email,
		"name":  acct.Name,
		"role":  acct.Role,
	}, "login successful", map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	}))
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie("refresh_token")
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil))
		return
	}

	pair, err := h.Svc.Refresh(c.Request.Context(), token)
	if err != nil {
		h.Cookies.Clear(c)
		c.JSON(http.StatusUnauthorized, response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil))
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	c.JSON(http.StatusOK, response.Success[any](c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	}))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Svc.Logout(c.Request.Context(), c.GetString("userID"))
	h.Cookies.Clear(c)
	c.JSON(http.StatusOK, response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil))
}
