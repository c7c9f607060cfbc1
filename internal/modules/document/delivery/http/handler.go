package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"quezon.gov.ph/portal/internal/modules/document/dto"
	document "quezon.gov.ph/portal/internal/modules/document/service"
	"quezon.gov.ph/portal/pkg/response"
)

type DocumentHandler struct {
	service document.DocumentService
}

func NewDocumentHandler(service document.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

func (h *DocumentHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/documents", h.GetPublished)
	rg.GET("/documents/:id/download", h.Download)
}

func (h *DocumentHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/documents", h.List)
	rg.POST("/documents", h.Create)
	rg.PUT("/documents/:id", h.Update)
	rg.DELETE("/documents/:id", h.Delete)
}

func (h *DocumentHandler) GetPublished(c *gin.Context) {
	var filter dto.DocumentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.service.GetPublished(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *DocumentHandler) Download(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	url, err := h.service.Download(c.Request.Context(), id, c.ClientIP())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Redirect(http.StatusFound, url)
}

func (h *DocumentHandler) List(c *gin.Context) {
	var filter dto.AdminDocumentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	docs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": docs})
}

func (h *DocumentHandler) Create(c *gin.Context) {
	var req dto.DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	d, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, d)
}

func (h *DocumentHandler) Update(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	d, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "document deleted successfully")
}
