package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"quezon.gov.ph/portal/internal/modules/auth/dto"
	auth "quezon.gov.ph/portal/internal/modules/auth/service"
	"quezon.gov.ph/portal/internal/session"
	"quezon.gov.ph/portal/pkg/apperror"
	"quezon.gov.ph/portal/pkg/response"
)

type AuthHandler struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/refresh", h.Refresh)
	rg.POST("/auth/password-reset", h.PasswordReset)
}

// RegisterSession mounts the routes that need a verified token.
func (h *AuthHandler) RegisterSession(rg *gin.RouterGroup) {
	rg.GET("/auth/session", h.Session)
	rg.POST("/auth/logout", h.Logout)
}

func (h *AuthHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/users", h.ListUsers)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var input dto.RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.authService.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) PasswordReset(c *gin.Context) {
	var input dto.PasswordResetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), input.Email); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "if an account exists for this email, a reset link has been sent")
}

func (h *AuthHandler) Session(c *gin.Context) {
	s, ok := session.From(c)
	if !ok {
		response.ResponseError(c, apperror.ErrUnauthorized)
		return
	}

	res, err := h.authService.Session(c.Request.Context(), s)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	s, ok := session.From(c)
	if !ok {
		response.ResponseError(c, apperror.ErrUnauthorized)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), s); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "signed out")
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	var q dto.UserListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	users, err := h.authService.ListUsers(c.Request.Context(), q.Page, q.PerPage)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": users})
}
