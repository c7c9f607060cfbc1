package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"quezon.gov.ph/portal/internal/modules/contact/dto"
	contact "quezon.gov.ph/portal/internal/modules/contact/service"
	"quezon.gov.ph/portal/pkg/response"
)

type ContactHandler struct {
	service     contact.ContactService
	redisClient *redis.Client
	upgrader    websocket.Upgrader
}

// NewContactHandler accepts websocket upgrades only from allowedOrigins
// ("*" allows any). Requests without an Origin header are not from a browser
// and are accepted.
func NewContactHandler(service contact.ContactService, redisClient *redis.Client, allowedOrigins []string) *ContactHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &ContactHandler{
		service:     service,
		redisClient: redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

func (h *ContactHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/contact", h.Submit)
}

func (h *ContactHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/contact-messages", h.List)
	rg.GET("/contact-messages/feed", h.Feed)
	rg.PATCH("/contact-messages/:id/status", h.UpdateStatus)
	rg.DELETE("/contact-messages/:id", h.Delete)
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	msg, err := h.service.Submit(c.Request.Context(), c.ClientIP(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "your message has been sent",
		"id":      msg.ID,
	})
}

func (h *ContactHandler) List(c *gin.Context) {
	var filter dto.ContactFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	msgs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": msgs})
}

func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	msg, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "contact message deleted successfully")
}

// Feed streams contact message events to a staff websocket client.
func (h *ContactHandler) Feed(c *gin.Context) {
	if h.redisClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live feed is not available"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	pubsub := h.redisClient.Subscribe(ctx, contact.FeedChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		log.Printf("Failed to subscribe to contact feed: %v", err)
		return
	}
	ch := pubsub.Channel()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Printf("Failed to write contact feed message: %v", err)
				return
			}
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		}
	}
}
