package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"courier-chat/internal/domain/message"
	courier_errors "courier-chat/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// memoryRepo is an in-memory MessageRepository for service tests.
type memoryRepo struct {
	mu       sync.Mutex
	messages map[uuid.UUID]message.Message
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{messages: make(map[uuid.UUID]message.Message)}
}

func (r *memoryRepo) Create(_ context.Context, m *message.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[m.ID] = *m
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return message.Message{}, courier_errors.ErrNotFound
	}
	return m, nil
}

func (r *memoryRepo) GetAll(_ context.Context) ([]message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]message.Message, 0, len(r.messages))
	for _, m := range r.messages {
		out = append(out, m)
	}
	return out, nil
}

func (r *memoryRepo) GetBySender(_ context.Context, senderID string) ([]message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []message.Message
	for _, m := range r.messages {
		if m.SenderID == senderID && !m.IsDeletedBySender {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memoryRepo) GetByRecipient(_ context.Context, recipientID string) ([]message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []message.Message
	for _, m := range r.messages {
		if m.RecipientID == recipientID && !m.IsDeletedByRecipient {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memoryRepo) Update(_ context.Context, m message.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.messages[m.ID]; !ok {
		return courier_errors.ErrNotFound
	}
	r.messages[m.ID] = m
	return nil
}

func (r *memoryRepo) HardDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.messages[id]; !ok {
		return courier_errors.ErrNotFound
	}
	delete(r.messages, id)
	return nil
}

func (r *memoryRepo) MarkAsRead(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return courier_errors.ErrNotFound
	}
	m.IsRead = true
	r.messages[id] = m
	return nil
}

func (r *memoryRepo) GetConversation(_ context.Context, userA, userB string) ([]message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []message.Message
	for _, m := range r.messages {
		if (m.SenderID == userA && m.RecipientID == userB) || (m.SenderID == userB && m.RecipientID == userA) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}

func (r *memoryRepo) GetPagedForUser(_ context.Context, userID string, page, size int) ([]message.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var visible []message.Message
	for _, m := range r.messages {
		if (m.SenderID == userID && !m.IsDeletedBySender) || (m.RecipientID == userID && !m.IsDeletedByRecipient) {
			visible = append(visible, m)
		}
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].SentAt.After(visible[j].SentAt) })
	total := int64(len(visible))
	start := (page - 1) * size
	if start >= len(visible) {
		return nil, total, nil
	}
	end := start + size
	if end > len(visible) {
		end = len(visible)
	}
	return visible[start:end], total, nil
}

func TestChatService_SaveMessage_Stores_Fresh_Record(t *testing.T) {
	req := require.New(t)
	repo := newMemoryRepo()
	svc := NewChatService(repo)

	before := time.Now().UTC()
	m, err := svc.SaveMessage(context.Background(), "u1", "u2", "hello")
	req.NoError(err)

	req.NotEqual(uuid.Nil, m.ID)
	req.Equal("u1", m.SenderID)
	req.Equal("u2", m.RecipientID)
	req.Equal("hello", m.Content)
	req.False(m.SentAt.Before(before))
	req.False(m.IsRead)

	stored, err := repo.GetByID(context.Background(), m.ID)
	req.NoError(err)
	req.Equal(m.Content, stored.Content)
}

func TestChatService_DeleteMessage_By_Sender_Flips_Sender_Flag_Only(t *testing.T) {
	req := require.New(t)
	repo := newMemoryRepo()
	svc := NewChatService(repo)

	m, err := svc.SaveMessage(context.Background(), "u1", "u2", "hello")
	req.NoError(err)

	req.NoError(svc.DeleteMessage(context.Background(), m.ID, "u1"))

	stored, err := repo.GetByID(context.Background(), m.ID)
	req.NoError(err)
	req.True(stored.IsDeletedBySender)
	req.False(stored.IsDeletedByRecipient)
	req.NotNil(stored.DeletedAt)
	req.Equal("u1", stored.DeletedBy)
}

func TestChatService_DeleteMessage_By_Recipient_Flips_Recipient_Flag_Only(t *testing.T) {
	req := require.New(t)
	repo := newMemoryRepo()
	svc := NewChatService(repo)

	m, err := svc.SaveMessage(context.Background(), "u1", "u2", "hello")
	req.NoError(err)

	req.NoError(svc.DeleteMessage(context.Background(), m.ID, "u2"))

	stored, err := repo.GetByID(context.Background(), m.ID)
	req.NoError(err)
	req.False(stored.IsDeletedBySender)
	req.True(stored.IsDeletedByRecipient)
	req.Equal("u2", stored.DeletedBy)
}

func TestChatService_DeleteMessage_By_Stranger_Is_Forbidden(t *testing.T) {
	req := require.New(t)
	repo := newMemoryRepo()
	svc := NewChatService(repo)

	m, err := svc.SaveMessage(context.Background(), "u1", "u2", "hello")
	req.NoError(err)

	err = svc.DeleteMessage(context.Background(), m.ID, "u3")
	req.ErrorIs(err, courier_errors.ErrForbidden)

	stored, err := repo.GetByID(context.Background(), m.ID)
	req.NoError(err)
	req.False(stored.IsDeletedBySender)
	req.False(stored.IsDeletedByRecipient)
	req.Nil(stored.DeletedAt)
}

func TestChatService_DeleteMessage_Unknown_Id_Is_NotFound(t *testing.T) {
	req := require.New(t)
	svc := NewChatService(newMemoryRepo())

	err := svc.DeleteMessage(context.Background(), uuid.New(), "u1")
	req.ErrorIs(err, courier_errors.ErrNotFound)
}

func TestChatService_DeleteMessage_Twice_Restamps_Audit_Fields(t *testing.T) {
	req := require.New(t)
	repo := newMemoryRepo()
	svc := NewChatService(repo)

	m, err := svc.SaveMessage(context.Background(), "u1", "u2", "hello")
	req.NoError(err)

	req.NoError(svc.DeleteMessage(context.Background(), m.ID, "u1"))
	first, err := repo.GetByID(context.Background(), m.ID)
	req.NoError(err)

	time.Sleep(2 * time.Millisecond)
	req.NoError(svc.DeleteMessage(context.Background(), m.ID, "u1"))
	second, err := repo.GetByID(context.Background(), m.ID)
	req.NoError(err)

	req.True(second.IsDeletedBySender)
	req.False(second.IsDeletedByRecipient)
	req.True(second.DeletedAt.After(*first.DeletedAt))
}

func TestChatService_MarkAsRead_By_Recipient(t *testing.T) {
	req := require.New(t)
	repo := newMemoryRepo()
	svc := NewChatService(repo)

	m, err := svc.SaveMessage(context.Background(), "u1", "u2", "hello")
	req.NoError(err)

	req.NoError(svc.MarkAsRead(context.Background(), m.ID, "u2"))

	stored, err := repo.GetByID(context.Background(), m.ID)
	req.NoError(err)
	req.True(stored.IsRead)
}

func TestChatService_MarkAsRead_By_Anyone_Else_Is_Forbidden(t *testing.T) {
	req := require.New(t)
	repo := newMemoryRepo()
	svc := NewChatService(repo)

	m, err := svc.SaveMessage(context.Background(), "u1", "u2", "hello")
	req.NoError(err)

	// Neither a stranger nor the sender may flip the recipient's read flag.
	req.ErrorIs(svc.MarkAsRead(context.Background(), m.ID, "u3"), courier_errors.ErrForbidden)
	req.ErrorIs(svc.MarkAsRead(context.Background(), m.ID, "u1"), courier_errors.ErrForbidden)

	stored, err := repo.GetByID(context.Background(), m.ID)
	req.NoError(err)
	req.False(stored.IsRead)
}

func TestChatService_MarkAsRead_Unknown_Id_Is_NotFound(t *testing.T) {
	req := require.New(t)
	svc := NewChatService(newMemoryRepo())

	req.ErrorIs(svc.MarkAsRead(context.Background(), uuid.New(), "u2"), courier_errors.ErrNotFound)
}

func TestChatService_GetPagedMessages_Clamps_Parameters(t *testing.T) {
	req := require.New(t)
	repo := newMemoryRepo()
	svc := NewChatService(repo)
	at := time.Now().UTC()

	for i := 0; i < 3; i++ {
		req.NoError(repo.Create(context.Background(), &message.Message{
			ID: uuid.New(), SenderID: "u1", RecipientID: "u2", Content: "m", SentAt: at.Add(time.Duration(i) * time.Second),
		}))
	}

	p, err := svc.GetPagedMessages(context.Background(), "u1", 0, -5)
	req.NoError(err)
	req.Equal(1, p.PageNumber)
	req.Equal(DefaultPageSize, p.PageSize)
	req.Equal(3, p.TotalCount)
	req.Len(p.Items, 3)
}

func TestChatService_GetPagedMessages_Newest_First(t *testing.T) {
	req := require.New(t)
	repo := newMemoryRepo()
	svc := NewChatService(repo)
	at := time.Now().UTC()

	for i := 0; i < 5; i++ {
		req.NoError(repo.Create(context.Background(), &message.Message{
			ID: uuid.New(), SenderID: "u1", RecipientID: "u2", Content: "m", SentAt: at.Add(time.Duration(i) * time.Second),
		}))
	}

	p, err := svc.GetPagedMessages(context.Background(), "u1", 1, 2)
	req.NoError(err)
	req.Equal(5, p.TotalCount)
	req.Equal(3, p.TotalPages)
	req.True(p.HasNext)
	req.False(p.HasPrev)
	req.Len(p.Items, 2)
	req.True(p.Items[0].SentAt.After(p.Items[1].SentAt))
}
