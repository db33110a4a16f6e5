package commands

import (
	"fmt"
	"unicode/utf8"

	courier_errors "courier-chat/pkg/errors"

	"github.com/google/uuid"
)

// MaxContentLength bounds message content on the creation path, counted in
// characters, not bytes. The store column is wider; anything above this is
// rejected before a write happens.
const MaxContentLength = 500

type Command interface {
	Name() string
	Validate() error
}

// SendMessage submits a new message from an authenticated sender.
type SendMessage struct {
	SenderID   string
	ReceiverID string
	Content    string
}

func (SendMessage) Name() string { return "message.send" }

func (c SendMessage) Validate() error {
	if c.SenderID == "" {
		return courier_errors.ErrUnauthenticated
	}
	if c.ReceiverID == "" {
		return fmt.Errorf("%w: receiver id is required", courier_errors.ErrInvalidInput)
	}
	if c.Content == "" {
		return fmt.Errorf("%w: message content cannot be empty", courier_errors.ErrInvalidInput)
	}
	if utf8.RuneCountInString(c.Content) > MaxContentLength {
		return fmt.Errorf("%w: message content cannot exceed %d characters", courier_errors.ErrInvalidInput, MaxContentLength)
	}
	return nil
}

// LoadConversation fetches the full history between the caller and another user.
type LoadConversation struct {
	UserID      string
	OtherUserID string
}

func (LoadConversation) Name() string { return "messages.load" }

func (c LoadConversation) Validate() error {
	if c.UserID == "" {
		return courier_errors.ErrUnauthenticated
	}
	if c.OtherUserID == "" {
		return fmt.Errorf("%w: receiver id is required", courier_errors.ErrInvalidInput)
	}
	return nil
}

// DeleteMessage soft-deletes a message from the acting user's view.
type DeleteMessage struct {
	ID           uuid.UUID
	ActingUserID string
}

func (DeleteMessage) Name() string { return "message.delete" }

func (c DeleteMessage) Validate() error {
	if c.ActingUserID == "" {
		return courier_errors.ErrUnauthenticated
	}
	if c.ID == uuid.Nil {
		return fmt.Errorf("%w: message id is required", courier_errors.ErrInvalidInput)
	}
	return nil
}
