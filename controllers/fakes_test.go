package controllers

import (
	"sort"
	"sync"
	"time"

	"github.com/miraheal/pulsechat/models"
	"github.com/miraheal/pulsechat/repository"
)

// In-memory repository fakes for handler tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Save(user *models.User) error { return r.Create(user) }

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindByUsername(username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations []*models.Conversation
}

func (r *fakeConversationRepo) Create(conv *models.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := *conv
	r.conversations = append(r.conversations, &saved)
	return nil
}

func (r *fakeConversationRepo) FindByID(id string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, conv := range r.conversations {
		if conv.ConversationID == id {
			copied := *conv
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeConversationRepo) FindByPair(userID, counselorID string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, conv := range r.conversations {
		if conv.UserID == userID && conv.CounselorID == counselorID {
			copied := *conv
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeConversationRepo) ListForParticipant(participantID string) ([]models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Conversation
	for _, conv := range r.conversations {
		if conv.UserID == participantID || conv.CounselorID == participantID {
			out = append(out, *conv)
		}
	}
	return out, nil
}

type fakePrivateMessageRepo struct {
	mu       sync.Mutex
	messages []*models.PrivateMessage
}

func (r *fakePrivateMessageRepo) Create(msg *models.PrivateMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := *msg
	r.messages = append(r.messages, &saved)
	return nil
}

func (r *fakePrivateMessageRepo) FindByID(id string) (*models.PrivateMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range r.messages {
		if msg.MessageID == id {
			copied := *msg
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePrivateMessageRepo) UpdateContent(id, senderID, content string, editedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range r.messages {
		if msg.MessageID == id && msg.SenderID == senderID && msg.Status != models.MessageStatusDeleted {
			msg.Content = content
			msg.Status = models.MessageStatusEdited
			msg.EditedAt = &editedAt
			return nil
		}
	}
	return repository.ErrNotOwnerOrMissing
}

func (r *fakePrivateMessageRepo) SoftDelete(id, senderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range r.messages {
		if msg.MessageID == id && msg.SenderID == senderID && msg.Status != models.MessageStatusDeleted {
			msg.Status = models.MessageStatusDeleted
			return nil
		}
	}
	return repository.ErrNotOwnerOrMissing
}

func (r *fakePrivateMessageRepo) ListByConversation(conversationID string) ([]models.PrivateMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PrivateMessage
	for _, msg := range r.messages {
		if msg.ConversationID == conversationID && msg.Status != models.MessageStatusDeleted {
			out = append(out, *msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*models.Notification
	markCalls     int
}

func (r *fakeNotificationRepo) Create(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := *n
	r.notifications = append(r.notifications, &saved)
	return nil
}

func (r *fakeNotificationRepo) ListUnread(userID string) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markCalls++
	for _, n := range r.notifications {
		if n.NotificationID == id {
			n.Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}
