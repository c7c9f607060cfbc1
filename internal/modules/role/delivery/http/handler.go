package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"quezon.gov.ph/portal/internal/middleware"
	"quezon.gov.ph/portal/internal/modules/role/dto"
	role "quezon.gov.ph/portal/internal/modules/role/service"
	"quezon.gov.ph/portal/internal/session"
	"quezon.gov.ph/portal/pkg/response"
)

type RoleHandler struct {
	service role.RoleService
}

func NewRoleHandler(service role.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// RegisterAdmin expects rg to be gated to administrators.
func (h *RoleHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/users/:id/roles", h.List)
	rg.POST("/users/:id/roles", h.Grant)
	rg.DELETE("/users/:id/roles/:role", h.Revoke)
	rg.GET("/users/:id/roles/audit", h.History)
}

func auditMetadata(c *gin.Context) dto.AuditMetadata {
	return dto.AuditMetadata{IP: c.ClientIP(), RequestID: middleware.GetRequestID(c)}
}

func actorID(c *gin.Context) uuid.UUID {
	if s, ok := session.From(c); ok {
		return s.UserID
	}
	return uuid.Nil
}

func (h *RoleHandler) List(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	roles, err := h.service.RolesOf(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": id, "roles": roles})
}

func (h *RoleHandler) Grant(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	roles, err := h.service.Grant(c.Request.Context(), actorID(c), id, req.Role, auditMetadata(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": id, "roles": roles})
}

func (h *RoleHandler) Revoke(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	roles, err := h.service.Revoke(c.Request.Context(), actorID(c), id, c.Param("role"), auditMetadata(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": id, "roles": roles})
}

func (h *RoleHandler) History(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var q dto.AuditQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	rows, err := h.service.History(c.Request.Context(), id, q.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}
