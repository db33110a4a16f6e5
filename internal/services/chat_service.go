package services

import (
	"context"
	"time"

	"courier-chat/internal/domain/message"
	"courier-chat/internal/domain/paging"
	"courier-chat/internal/repository"
	courier_errors "courier-chat/pkg/errors"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ChatService owns the conversation rules: persisting new messages,
// per-participant soft delete, and the read models over the store.
type ChatService struct {
	messageRepo repository.MessageRepository
}

func NewChatService(messageRepo repository.MessageRepository) *ChatService {
	return &ChatService{messageRepo: messageRepo}
}

// SaveMessage persists a new message and returns the stored record. The
// sender is assumed already authenticated by the caller.
func (s *ChatService) SaveMessage(ctx context.Context, senderID, receiverID, content string) (message.Message, error) {
	m := message.Message{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: receiverID,
		Content:     content,
		SentAt:      time.Now().UTC(),
	}
	if err := s.messageRepo.Create(ctx, &m); err != nil {
		return message.Message{}, err
	}
	return m, nil
}

// DeleteMessage hides the message from the acting user's view. Only the
// sender or the recipient may delete; each party flips its own flag. A repeat
// delete by the same party re-stamps the audit pair and nothing else.
func (s *ChatService) DeleteMessage(ctx context.Context, id uuid.UUID, actingUserID string) error {
	m, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch actingUserID {
	case m.SenderID:
		m.IsDeletedBySender = true
	case m.RecipientID:
		m.IsDeletedByRecipient = true
	default:
		return courier_errors.ErrForbidden
	}

	now := time.Now().UTC()
	m.DeletedAt = &now
	m.DeletedBy = actingUserID

	return s.messageRepo.Update(ctx, m)
}

// GetConversation returns the full history between two users, oldest first.
func (s *ChatService) GetConversation(ctx context.Context, userID, otherUserID string) ([]message.Message, error) {
	return s.messageRepo.GetConversation(ctx, userID, otherUserID)
}

// GetPagedMessages returns the user's visible messages, newest first.
func (s *ChatService) GetPagedMessages(ctx context.Context, userID string, pageNumber, pageSize int) (paging.PagedList[message.Message], error) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	items, total, err := s.messageRepo.GetPagedForUser(ctx, userID, pageNumber, pageSize)
	if err != nil {
		return paging.PagedList[message.Message]{}, err
	}
	return paging.NewPagedList(items, int(total), pageNumber, pageSize), nil
}

// MarkAsRead flips the read flag on a delivered message. Only the recipient
// may mark a message read; anyone else gets Forbidden.
func (s *ChatService) MarkAsRead(ctx context.Context, id uuid.UUID, actingUserID string) error {
	m, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if actingUserID != m.RecipientID {
		return courier_errors.ErrForbidden
	}
	return s.messageRepo.MarkAsRead(ctx, id)
}
