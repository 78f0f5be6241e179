package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	adminapp "github.com/careerbridge/careerbridge-api/internal/application"
	"github.com/careerbridge/careerbridge-api/internal/domain"
	"github.com/careerbridge/careerbridge-api/internal/domain/entity"
	"github.com/careerbridge/careerbridge-api/pkg/response"
	"github.com/careerbridge/careerbridge-api/pkg/validation"
)

type AdminHandler struct {
	Svc    *adminapp.AdminService
	Logger *logrus.Logger
}

func NewAdminHandler(svc *adminapp.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger}
}

type actionRequest struct {
	Type    string `json:"type" binding:"required,action"`
	Reason  string `json:"reason"`
	NewRole string `json:"new_role"`
}

// ExecuteAction applies a moderation action to the target account.
// POST /api/admin/accounts/:id/actions
func (h *AdminHandler) ExecuteAction(c *gin.Context) {
	targetID := c.Param("id")
	adminID := c.GetString("userID")

	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err)))
		return
	}

	acct, err := h.Svc.Execute(c.Request.Context(), adminID, targetID, entity.ActionRequest{
		Type:    entity.ActionType(req.Type),
		Reason:  req.Reason,
		NewRole: entity.Role(req.NewRole),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, response.Error[any](c, http.StatusNotFound, "account not found", nil))
		case errors.Is(err, domain.ErrInvalidAction):
			c.JSON(http.StatusBadRequest, response.Error[any](c, http.StatusBadRequest, err.Error(), nil))
		default:
			h.Logger.WithError(err).WithFields(logrus.Fields{
				"admin_id":  adminID,
				"target_id": targetID,
				"action":    req.Type,
			}).Error("admin action failed")
			c.JSON(http.StatusInternalServerError, response.Error[any](c, http.StatusInternalServerError, "action failed", nil))
		}
		return
	}

	body := gin.H{"executed": true, "action": req.Type, "target_id": targetID}
	if acct != nil {
		body["account"] = gin.H{
			"id":          acct.ID,
			"email":       acct.Email,
			"name":        acct.Name,
			"role":        acct.Role,
			"is_active":   acct.IsActive,
			"is_verified": acct.IsVerified,
		}
	}
	c.JSON(http.StatusOK, response.Success(c, http.StatusOK, body, "action executed", nil))
}
