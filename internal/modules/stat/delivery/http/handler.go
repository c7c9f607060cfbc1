package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	statService "quezon.gov.ph/portal/internal/modules/stat/service"
	"quezon.gov.ph/portal/pkg/response"
)

type StatHandler struct {
	statService statService.StatService
}

func NewStatHandler(statService statService.StatService) *StatHandler {
	return &StatHandler{
		statService: statService,
	}
}

func (h *StatHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/stats", h.GetDashboard)
	rg.GET("/stats/users", h.GetTotalUsers)
}

func (h *StatHandler) GetTotalUsers(c *gin.Context) {
	count, err := h.statService.GetTotalUsers(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_users": count,
	})
}

func (h *StatHandler) GetDashboard(c *gin.Context) {
	d, err := h.statService.GetDashboard(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}
