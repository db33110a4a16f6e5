package repository

import (
	"context"
	"errors"
	"fmt"

	"courier-chat/internal/domain/message"
	courier_errors "courier-chat/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Create(ctx context.Context, m *message.Message) error {
	res := r.db.WithContext(ctx).Create(m)
	if res.Error != nil {
		return storeErr(res.Error)
	}
	return nil
}

func (r *GormMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (message.Message, error) {
	var m message.Message
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return message.Message{}, courier_errors.ErrNotFound
		}
		return message.Message{}, storeErr(err)
	}
	return m, nil
}

func (r *GormMessageRepository) GetAll(ctx context.Context) ([]message.Message, error) {
	var messages []message.Message
	err := r.db.WithContext(ctx).Order("sent_at ASC").Find(&messages).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return messages, nil
}

func (r *GormMessageRepository) GetBySender(ctx context.Context, senderID string) ([]message.Message, error) {
	var messages []message.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND is_deleted_by_sender = ?", senderID, false).
		Order("sent_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return messages, nil
}

func (r *GormMessageRepository) GetByRecipient(ctx context.Context, recipientID string) ([]message.Message, error) {
	var messages []message.Message
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND is_deleted_by_recipient = ?", recipientID, false).
		Order("sent_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return messages, nil
}

func (r *GormMessageRepository) Update(ctx context.Context, m message.Message) error {
	res := r.db.WithContext(ctx).Save(&m)
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return courier_errors.ErrNotFound
	}
	return nil
}

func (r *GormMessageRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&message.Message{}, "id = ?", id)
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return courier_errors.ErrNotFound
	}
	return nil
}

func (r *GormMessageRepository) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("id = ?", id).
		Update("is_read", true)
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return courier_errors.ErrNotFound
	}
	return nil
}

func (r *GormMessageRepository) GetConversation(ctx context.Context, userA, userB string) ([]message.Message, error) {
	var messages []message.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA).
		Order("sent_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return messages, nil
}

func (r *GormMessageRepository) GetPagedForUser(ctx context.Context, userID string, page, size int) ([]message.Message, int64, error) {
	var messages []message.Message
	var total int64

	q := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("(sender_id = ? AND is_deleted_by_sender = ?) OR (recipient_id = ? AND is_deleted_by_recipient = ?)",
			userID, false, userID, false)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, storeErr(err)
	}

	offset := (page - 1) * size
	if err := q.Order("sent_at DESC").Offset(offset).Limit(size).Find(&messages).Error; err != nil {
		return nil, 0, storeErr(err)
	}

	return messages, total, nil
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", courier_errors.ErrStoreFailure, err)
}
