package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"quezon.gov.ph/portal/internal/modules/search/dto"
	"quezon.gov.ph/portal/internal/modules/search/service"
	"quezon.gov.ph/portal/pkg/response"
)

type SearchHandler struct {
	service service.SearchService
}

func NewSearchHandler(service service.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) Search(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.service.Search(c.Request.Context(), q.Q, q.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Reindex triggers a full rebuild on demand.
func (h *SearchHandler) Reindex(c *gin.Context) {
	if err := h.service.Reindex(c.Request.Context()); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "search indexes rebuilt"})
}
