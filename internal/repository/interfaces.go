package repository

import (
	"context"

	"courier-chat/internal/domain/message"

	"github.com/google/uuid"
)

// MessageRepository is the durable store contract for direct messages.
type MessageRepository interface {
	Create(ctx context.Context, m *message.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (message.Message, error)
	GetAll(ctx context.Context) ([]message.Message, error)
	GetBySender(ctx context.Context, senderID string) ([]message.Message, error)
	GetByRecipient(ctx context.Context, recipientID string) ([]message.Message, error)
	Update(ctx context.Context, m message.Message) error

	// HardDelete removes the row. The conversation flow never calls this;
	// it exists as a low-level primitive only.
	HardDelete(ctx context.Context, id uuid.UUID) error

	MarkAsRead(ctx context.Context, id uuid.UUID) error

	// GetConversation returns every message exchanged between the two users,
	// oldest first.
	GetConversation(ctx context.Context, userA, userB string) ([]message.Message, error)

	// GetPagedForUser returns the user's visible messages (either side, own
	// delete flag clear), newest first, plus the unsliced total count.
	GetPagedForUser(ctx context.Context, userID string, page, size int) ([]message.Message, int64, error)
}
