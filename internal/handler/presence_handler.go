package handler

import (
	"net/http"

	"courier-chat/internal/redis"
	"courier-chat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// PresenceHandler exposes the online-user view backed by redis.
type PresenceHandler struct {
	presence *redis.PresenceStore
}

func NewPresenceHandler(presence *redis.PresenceStore) *PresenceHandler {
	return &PresenceHandler{presence: presence}
}

// GetOnlineUsers lists users currently holding a live connection.
func (h *PresenceHandler) GetOnlineUsers(c *gin.Context) {
	users, err := h.presence.GetOnlineUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("presence unavailable", "INTERNAL_ERROR"))
		return
	}
	if users == nil {
		users = []string{}
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(users))
}
