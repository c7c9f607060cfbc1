package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"quezon.gov.ph/portal/internal/modules/upload/dto"
	upload "quezon.gov.ph/portal/internal/modules/upload/service"
	"quezon.gov.ph/portal/internal/session"
	"quezon.gov.ph/portal/pkg/response"
)

type UploadHandler struct {
	service upload.UploadService
}

func NewUploadHandler(service upload.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	s, ok := session.From(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer f.Close()

	resp, err := h.service.Upload(c.Request.Context(), s.UserID, dto.UploadFile{
		Reader:      f,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *UploadHandler) List(c *gin.Context) {
	var q dto.ListUploadsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	uploads, err := h.service.List(c.Request.Context(), q.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": uploads})
}
