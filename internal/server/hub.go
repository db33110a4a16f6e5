package server

import (
	"context"
	"errors"

	"courier-chat/internal/commands"
	"courier-chat/internal/domain/message"
	"courier-chat/internal/services"
	"courier-chat/pkg/logger"

	"go.uber.org/zap"
)

// PresenceTracker mirrors connection lifecycle into an external presence
// store. Optional; a nil tracker disables it.
type PresenceTracker interface {
	SetOnline(ctx context.Context, userID string) error
	SetOffline(ctx context.Context, userID string) error
}

// Hub is the protocol-facing dispatcher: it owns the connection registry,
// routes send/load operations to the chat service, and pushes resulting
// events to whichever participants are currently connected.
type Hub struct {
	registry    *ConnectionRegistry
	chatService *services.ChatService
	pipeline    *commands.Pipeline
	presence    PresenceTracker
	log         *logger.Logger
}

func NewHub(chatService *services.ChatService, pipeline *commands.Pipeline, presence PresenceTracker, log *logger.Logger) *Hub {
	return &Hub{
		registry:    NewConnectionRegistry(),
		chatService: chatService,
		pipeline:    pipeline,
		presence:    presence,
		log:         log,
	}
}

// Registry exposes the connection registry for the query edges.
func (h *Hub) Registry() *ConnectionRegistry {
	return h.registry
}

// Connect registers the client's user when an identity was resolved. A
// connection without identity stays open but never enters the registry.
func (h *Hub) Connect(c *Client) {
	if c.userID == "" {
		h.log.Warn(context.Background(), "connection without resolved identity",
			zap.String("client_id", c.clientID))
		return
	}

	h.registry.Register(c.userID, c)
	if h.presence != nil {
		if err := h.presence.SetOnline(context.Background(), c.userID); err != nil {
			h.log.Warn(context.Background(), "presence update failed", zap.Error(err))
		}
	}
	h.log.Info(context.Background(), "client connected",
		zap.String("user_id", c.userID),
		zap.String("client_id", c.clientID))
}

// Disconnect tears the client down. The registry entry is removed only while
// it still points at this client, so a reconnect that raced the teardown
// keeps its binding.
func (h *Hub) Disconnect(c *Client) {
	if c.userID != "" && h.registry.Unregister(c.userID, c) {
		if h.presence != nil {
			if err := h.presence.SetOffline(context.Background(), c.userID); err != nil {
				h.log.Warn(context.Background(), "presence update failed", zap.Error(err))
			}
		}
		h.log.Info(context.Background(), "client disconnected",
			zap.String("user_id", c.userID),
			zap.String("client_id", c.clientID))
	}
	c.close()
}

// SendMessage persists a message from the caller and pushes it to both
// participants' current connections. An offline party is silently skipped;
// the message stays durably queryable through paged retrieval.
func (h *Hub) SendMessage(ctx context.Context, c *Client, receiverID, content string) {
	cmd := commands.SendMessage{
		SenderID:   c.userID,
		ReceiverID: receiverID,
		Content:    content,
	}

	dto, err := commands.Execute(ctx, h.pipeline, cmd, func(ctx context.Context) (message.Dto, error) {
		m, err := h.chatService.SaveMessage(ctx, cmd.SenderID, cmd.ReceiverID, cmd.Content)
		if err != nil {
			return message.Dto{}, err
		}
		return m.ToDto(), nil
	})
	if err != nil {
		c.pushEvent(errorEnvelope(err))
		return
	}

	if sender, ok := h.registry.Lookup(cmd.SenderID); ok {
		sender.pushEvent(eventEnvelope{Type: EventReceiveMessage, Data: dto})
	}
	if receiver, ok := h.registry.Lookup(cmd.ReceiverID); ok {
		receiver.pushEvent(eventEnvelope{Type: EventReceiveMessage, Data: dto})
	}
}

// LoadMessages fetches the caller's conversation with another user and pushes
// it to the caller's own registered connection only.
func (h *Hub) LoadMessages(ctx context.Context, c *Client, otherUserID string) {
	cmd := commands.LoadConversation{
		UserID:      c.userID,
		OtherUserID: otherUserID,
	}

	dtos, err := commands.Execute(ctx, h.pipeline, cmd, func(ctx context.Context) ([]message.Dto, error) {
		msgs, err := h.chatService.GetConversation(ctx, cmd.UserID, cmd.OtherUserID)
		if err != nil {
			return nil, err
		}
		return message.ToDtos(msgs), nil
	})
	if err != nil {
		c.pushEvent(errorEnvelope(err))
		return
	}

	if caller, ok := h.registry.Lookup(cmd.UserID); ok {
		caller.pushEvent(eventEnvelope{Type: EventMessagesHistory, Data: dtos})
	}
}

func errorEnvelope(err error) eventEnvelope {
	env := eventEnvelope{
		Type:  EventError,
		Error: err.Error(),
		Code:  commands.CodeOf(err),
	}
	var internal *commands.InternalError
	if errors.As(err, &internal) {
		env.Error = "internal error"
		env.CorrelationID = internal.CorrelationID
	}
	return env
}
