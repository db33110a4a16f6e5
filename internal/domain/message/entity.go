package message

import (
	"time"

	"github.com/google/uuid"
)

// Message is a direct message between two users. Users never hard-delete
// through the conversation flow; each side hides its copy via its own flag.
type Message struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID             string     `gorm:"size:64;not null;index" json:"sender_id"`
	RecipientID          string     `gorm:"size:64;not null;index" json:"recipient_id"`
	Content              string     `gorm:"size:2000;not null" json:"content"`
	SentAt               time.Time  `gorm:"not null;index" json:"sent_at"`
	IsRead               bool       `gorm:"not null;default:false" json:"is_read"`
	IsDeletedBySender    bool       `gorm:"not null;default:false" json:"is_deleted_by_sender"`
	IsDeletedByRecipient bool       `gorm:"not null;default:false" json:"is_deleted_by_recipient"`
	DeletedAt            *time.Time `json:"deleted_at,omitempty"`
	DeletedBy            string     `gorm:"size:64" json:"deleted_by,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}

// VisibleTo reports whether the message is still part of the given user's view.
func (m Message) VisibleTo(userID string) bool {
	switch userID {
	case m.SenderID:
		return !m.IsDeletedBySender
	case m.RecipientID:
		return !m.IsDeletedByRecipient
	default:
		return false
	}
}

// Dto is the wire shape pushed to connections and returned by the REST edge.
type Dto struct {
	ID         uuid.UUID `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

func (m Message) ToDto() Dto {
	return Dto{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.RecipientID,
		Content:    m.Content,
		Timestamp:  m.SentAt.UTC(),
	}
}

func ToDtos(msgs []Message) []Dto {
	dtos := make([]Dto, 0, len(msgs))
	for _, m := range msgs {
		dtos = append(dtos, m.ToDto())
	}
	return dtos
}
