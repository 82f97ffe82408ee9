package handlers

import (
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-auth/internal/application"
	"github.com/oksasatya/go-ddd-auth/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-auth/pkg/helpers"
	"github.com/oksasatya/go-ddd-auth/pkg/response"
)

// authStats is published on /api/debug/vars.
var authStats = expvar.NewMap("auth")

type AuthHandler struct {
	UC     *application.AuthUseCase
	Logger *logrus.Logger
	// Cookies, when set, mirrors issued tokens into HttpOnly cookies.
	Cookies    *helpers.CookieManager
	RefreshTTL time.Duration
}

func NewAuthHandler(uc *application.AuthUseCase, logger *logrus.Logger, cookies *helpers.CookieManager, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{UC: uc, Logger: logger, Cookies: cookies, RefreshTTL: refreshTTL}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,max=254"`
	Password string `json:"password" binding:"required"`
	TenantID string `json:"tenantId" binding:"omitempty,max=255"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.UC.Register(c.Request.Context(), application.RegisterCommand{
		Email:    req.Email,
		Password: req.Password,
		TenantID: req.TenantID,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	authStats.Add("register", 1)
	h.setCookies(c, res)
	response.Success(c, http.StatusCreated, res, "User registered successfully", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.UC.Login(c.Request.Context(), application.LoginCommand{Email: req.Email, Password: req.Password})
	if err != nil {
		authStats.Add("login_failed", 1)
		writeError(c, h.Logger, err)
		return
	}
	authStats.Add("login", 1)
	h.setCookies(c, res)
	response.Success(c, http.StatusOK, res, "login successful", nil)
}

// Refresh takes the token from the JSON body, or from the refresh cookie when
// cookies are enabled and the body has none.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	if req.RefreshToken == "" && h.Cookies != nil {
		req.RefreshToken, _ = c.Cookie(helpers.RefreshTokenCookie)
	}
	if req.RefreshToken == "" {
		response.Error[any](c, http.StatusBadRequest, "missing refresh token", map[string]string{"refreshToken": "is required"})
		return
	}
	res, err := h.UC.Refresh(c.Request.Context(), application.RefreshTokenCommand{RefreshToken: req.RefreshToken})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	authStats.Add("refresh", 1)
	h.setCookies(c, res)
	response.Success(c, http.StatusOK, res, "token refreshed", nil)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if h.Cookies != nil {
		h.Cookies.Clear(c)
	}
	msg := h.UC.Logout(c.Request.Context())
	response.Success[any](c, http.StatusOK, gin.H{"status": "success"}, msg, nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	s, err := h.UC.CurrentUser(middleware.CurrentUser(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, s, "current user", nil)
}

func (h *AuthHandler) setCookies(c *gin.Context, res application.AuthResponse) {
	if h.Cookies == nil {
		return
	}
	h.Cookies.SetPair(c, res.AccessToken, time.Duration(res.ExpiresIn)*time.Second, res.RefreshToken, h.RefreshTTL)
}
