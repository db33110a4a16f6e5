package server

import (
	"net/http"
	"strings"

	"courier-chat/internal/identity"
	"courier-chat/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler upgrades HTTP requests to live connections.
type WebSocketHandler struct {
	hub      *Hub
	verifier identity.Verifier
	log      *logger.Logger
}

func NewWebSocketHandler(hub *Hub, verifier identity.Verifier, log *logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, verifier: verifier, log: log}
}

// Handle upgrades the request. A missing or invalid token does not block the
// upgrade; the connection simply has no identity and every operation on it
// fails unauthenticated.
func (h *WebSocketHandler) Handle(c *gin.Context) {
	userID := ""
	if token := h.extractToken(c); token != "" {
		if id, err := h.verifier.Verify(token); err == nil {
			userID = id
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error(c.Request.Context(), "websocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(h.hub, conn, userID, uuid.New().String(), h.log)
	h.hub.Connect(client)

	go client.writePump()
	go client.readPump()
}

func (h *WebSocketHandler) extractToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	return ""
}
