package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	profileDto "quezon.gov.ph/portal/internal/modules/profile/dto"
	profile "quezon.gov.ph/portal/internal/modules/profile/service"
	"quezon.gov.ph/portal/internal/session"
	"quezon.gov.ph/portal/pkg/apperror"
	"quezon.gov.ph/portal/pkg/response"
)

type ProfileHandler struct {
	profileService profile.ProfileService
}

func NewProfileHandler(profileService profile.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// RegisterSelf mounts the owner routes; rg must require a session.
func (h *ProfileHandler) RegisterSelf(rg *gin.RouterGroup) {
	rg.GET("/profile/me", h.GetCurrentProfile)
	rg.PUT("/profile", h.UpdateProfile)
}

func (h *ProfileHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/profiles", h.List)
	rg.PUT("/profiles/:id", h.AdminUpdate)
}

func (h *ProfileHandler) GetCurrentProfile(c *gin.Context) {
	s, ok := session.From(c)
	if !ok {
		response.ResponseError(c, apperror.ErrUnauthorized)
		return
	}

	p, err := h.profileService.GetCurrentProfile(c.Request.Context(), s.UserID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	s, ok := session.From(c)
	if !ok {
		response.ResponseError(c, apperror.ErrUnauthorized)
		return
	}

	var input profileDto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	p, err := h.profileService.UpdateProfile(c.Request.Context(), s.UserID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) List(c *gin.Context) {
	var filter profileDto.ProfileFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	profiles, err := h.profileService.List(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profiles})
}

func (h *ProfileHandler) AdminUpdate(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input profileDto.AdminUpdateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	p, err := h.profileService.AdminUpdate(c.Request.Context(), id, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
