package handler

import (
	"context"
	"errors"
	"net/http"

	"courier-chat/internal/commands"
	"courier-chat/internal/domain/message"
	"courier-chat/internal/domain/paging"
	"courier-chat/internal/middleware"
	"courier-chat/internal/services"
	"courier-chat/internal/transport/httpdto"
	courier_errors "courier-chat/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MessageHandler is the non-realtime query/command surface over messages.
type MessageHandler struct {
	chatService *services.ChatService
	pipeline    *commands.Pipeline
}

func NewMessageHandler(chatService *services.ChatService, pipeline *commands.Pipeline) *MessageHandler {
	return &MessageHandler{chatService: chatService, pipeline: pipeline}
}

// Create persists a message from the authenticated caller.
func (h *MessageHandler) Create(c *gin.Context) {
	var req httpdto.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "VALIDATION_ERROR"))
		return
	}

	cmd := commands.SendMessage{
		SenderID:   middleware.UserID(c),
		ReceiverID: req.RecipientID,
		Content:    req.Content,
	}
	dto, err := commands.Execute(c.Request.Context(), h.pipeline, cmd, func(ctx context.Context) (message.Dto, error) {
		m, err := h.chatService.SaveMessage(ctx, cmd.SenderID, cmd.ReceiverID, cmd.Content)
		if err != nil {
			return message.Dto{}, err
		}
		return m.ToDto(), nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(dto))
}

// GetPaged returns the caller's visible messages, newest first.
func (h *MessageHandler) GetPaged(c *gin.Context) {
	var params httpdto.MessageParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "VALIDATION_ERROR"))
		return
	}

	paged, err := h.chatService.GetPagedMessages(c.Request.Context(), middleware.UserID(c), params.PageNumber, params.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(pagedDtos(paged)))
}

// GetConversation returns the caller's full history with another user.
func (h *MessageHandler) GetConversation(c *gin.Context) {
	otherUserID := c.Param("userId")

	cmd := commands.LoadConversation{
		UserID:      middleware.UserID(c),
		OtherUserID: otherUserID,
	}
	dtos, err := commands.Execute(c.Request.Context(), h.pipeline, cmd, func(ctx context.Context) ([]message.Dto, error) {
		msgs, err := h.chatService.GetConversation(ctx, cmd.UserID, cmd.OtherUserID)
		if err != nil {
			return nil, err
		}
		return message.ToDtos(msgs), nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(dtos))
}

// Delete soft-deletes a message from the caller's view.
func (h *MessageHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid message id", "VALIDATION_ERROR"))
		return
	}

	cmd := commands.DeleteMessage{
		ID:           id,
		ActingUserID: middleware.UserID(c),
	}
	_, err = commands.Execute(c.Request.Context(), h.pipeline, cmd, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, h.chatService.DeleteMessage(ctx, cmd.ID, cmd.ActingUserID)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse("message deleted"))
}

// MarkAsRead flips the read flag on a message.
func (h *MessageHandler) MarkAsRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid message id", "VALIDATION_ERROR"))
		return
	}

	if err := h.chatService.MarkAsRead(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse("message marked as read"))
}

func pagedDtos(p paging.PagedList[message.Message]) paging.PagedList[message.Dto] {
	return paging.Map(p, message.Message.ToDto)
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, courier_errors.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, courier_errors.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, courier_errors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, courier_errors.ErrForbidden):
		status = http.StatusForbidden
	}
	c.JSON(status, httpdto.NewErrorResponse(err.Error(), commands.CodeOf(err)))
}
