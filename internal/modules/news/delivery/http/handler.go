package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"quezon.gov.ph/portal/internal/modules/news/dto"
	news "quezon.gov.ph/portal/internal/modules/news/service"
	"quezon.gov.ph/portal/internal/session"
	"quezon.gov.ph/portal/pkg/response"
)

type NewsHandler struct {
	service news.NewsService
}

func NewNewsHandler(service news.NewsService) *NewsHandler {
	return &NewsHandler{service: service}
}

// RegisterPublic mounts the read-only routes.
func (h *NewsHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/news", h.GetPublished)
	rg.GET("/news/:id", h.GetPublishedByID)
}

func (h *NewsHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/news", h.List)
	rg.POST("/news", h.Create)
	rg.PUT("/news/:id", h.Update)
	rg.DELETE("/news/:id", h.Delete)
}

func (h *NewsHandler) GetPublished(c *gin.Context) {
	var filter dto.NewsFilter
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

func (h *NewsHandler) GetPublishedByID(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	n, err := h.service.GetPublishedByID(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, n)
}

func (h *NewsHandler) List(c *gin.Context) {
	var filter dto.AdminNewsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *NewsHandler) Create(c *gin.Context) {
	var req dto.NewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	authorID := uuid.Nil
	if s, ok := session.From(c); ok {
		authorID = s.UserID
	}

	n, err := h.service.Create(c.Request.Context(), authorID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, n)
}

func (h *NewsHandler) Update(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.NewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	n, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, n)
}

func (h *NewsHandler) Delete(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "news deleted successfully")
}
