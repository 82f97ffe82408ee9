package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-auth/internal/application"
	"github.com/oksasatya/go-ddd-auth/internal/domain/errs"
	"github.com/oksasatya/go-ddd-auth/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-auth/pkg/response"
)

type UserHandler struct {
	Admin  *application.UserAdmin
	Logger *logrus.Logger
}

func NewUserHandler(admin *application.UserAdmin, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Admin: admin, Logger: logger}
}

type changeStatusRequest struct {
	Action string `json:"action" binding:"required,oneof=activate deactivate suspend delete"`
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required,userstatus"`
}

type roleRequest struct {
	Role string `json:"role" binding:"required,userrole"`
}

type tenantRequest struct {
	TenantID string `json:"tenantId" binding:"required,max=255"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type changeEmailRequest struct {
	Email string `json:"email" binding:"required,max=254"`
}

// List accepts one of tenant, status, role, email, or a from/to RFC 3339 range.
func (h *UserHandler) List(c *gin.Context) {
	f := application.UserFilter{
		TenantID:     c.Query("tenant"),
		Status:       c.Query("status"),
		Role:         c.Query("role"),
		EmailPattern: c.Query("email"),
	}
	var err error
	if f.From, err = queryTime(c, "from"); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if f.To, err = queryTime(c, "to"); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	users, err := h.Admin.List(c.Request.Context(), middleware.CurrentUser(c), f)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, users, "users", gin.H{"count": len(users)})
}

func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	users, err := h.Admin.Search(c.Request.Context(), middleware.CurrentUser(c), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, users, "search results", gin.H{"count": len(users)})
}

func (h *UserHandler) Get(c *gin.Context) {
	s, err := h.Admin.Get(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, s, "user", nil)
}

// ChangeStatus runs a guarded lifecycle action.
func (h *UserHandler) ChangeStatus(c *gin.Context) {
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	s, err := h.Admin.ChangeStatus(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Action)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, s, "status updated", nil)
}

// SetStatus forces a status without lifecycle guards.
func (h *UserHandler) SetStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	s, err := h.Admin.SetStatus(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, s, "status set", nil)
}

func (h *UserHandler) AddRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	s, err := h.Admin.AddRole(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Role)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, s, "role added", nil)
}

func (h *UserHandler) RemoveRole(c *gin.Context) {
	s, err := h.Admin.RemoveRole(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), c.Param("role"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, s, "role removed", nil)
}

func (h *UserHandler) AssignTenant(c *gin.Context) {
	var req tenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	s, err := h.Admin.AssignTenant(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.TenantID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, s, "tenant assigned", nil)
}

func (h *UserHandler) RemoveTenant(c *gin.Context) {
	s, err := h.Admin.RemoveTenant(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, s, "tenant removed", nil)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Admin.ChangeOwnPassword(c.Request.Context(), middleware.CurrentUser(c), req.CurrentPassword, req.NewPassword); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"changed": true}, "password changed", nil)
}

func (h *UserHandler) ChangeEmail(c *gin.Context) {
	var req changeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	s, err := h.Admin.ChangeOwnEmail(c.Request.Context(), middleware.CurrentUser(c), req.Email)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, s, "email changed", nil)
}

func queryTime(c *gin.Context, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errs.NewValidation(key, errs.ReasonInvalidFormat, "expected RFC 3339 timestamp")
	}
	return t, nil
}
