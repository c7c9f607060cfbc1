package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"quezon.gov.ph/portal/internal/modules/bac/dto"
	bac "quezon.gov.ph/portal/internal/modules/bac/service"
	"quezon.gov.ph/portal/internal/session"
	"quezon.gov.ph/portal/pkg/response"
)

type BacHandler struct {
	service bac.BacService
}

func NewBacHandler(service bac.BacService) *BacHandler {
	return &BacHandler{service: service}
}

func (h *BacHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/bac-documents", h.GetPublic)
}

// RegisterAdmin expects rg to be gated to the BAC roles.
func (h *BacHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/bac-documents", h.List)
	rg.POST("/bac-documents", h.Create)
	rg.PUT("/bac-documents/:id", h.Update)
	rg.DELETE("/bac-documents/:id", h.Delete)
}

func (h *BacHandler) GetPublic(c *gin.Context) {
	var filter dto.BacFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.service.GetPublic(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *BacHandler) List(c *gin.Context) {
	var filter dto.BacFilter
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

func (h *BacHandler) Create(c *gin.Context) {
	var req dto.BacDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	createdBy := uuid.Nil
	if s, ok := session.From(c); ok {
		createdBy = s.UserID
	}

	b, err := h.service.Create(c.Request.Context(), createdBy, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

func (h *BacHandler) Update(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.BacDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	b, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *BacHandler) Delete(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "bac document deleted successfully")
}
