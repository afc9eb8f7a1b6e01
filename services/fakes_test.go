package services

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/miraheal/pulsechat/models"
	"github.com/miraheal/pulsechat/repository"
)

// In-memory repository fakes backing the hub tests.

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

func (r *fakeUserRepo) Save(user *models.User) error {
	return r.Create(user)
}

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

type fakeRoomMessageRepo struct {
	mu       sync.Mutex
	messages map[string]*models.RoomMessage
	failNext bool
}

func newFakeRoomMessageRepo() *fakeRoomMessageRepo {
	return &fakeRoomMessageRepo{messages: make(map[string]*models.RoomMessage)}
}

func (r *fakeRoomMessageRepo) Create(msg *models.RoomMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext {
		r.failNext = false
		return errStoreDown
	}
	saved := *msg
	r.messages[msg.MessageID] = &saved
	return nil
}

func (r *fakeRoomMessageRepo) FindByID(id string) (*models.RoomMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *msg
	return &copied, nil
}

func (r *fakeRoomMessageRepo) UpdateContent(id, senderID, content string, editedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok || msg.SenderID != senderID || msg.Status == models.MessageStatusDeleted {
		return repository.ErrNotOwnerOrMissing
	}
	msg.Content = content
	msg.Status = models.MessageStatusEdited
	msg.EditedAt = &editedAt
	return nil
}

func (r *fakeRoomMessageRepo) SoftDelete(id, senderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok || msg.SenderID != senderID || msg.Status == models.MessageStatusDeleted {
		return repository.ErrNotOwnerOrMissing
	}
	msg.Status = models.MessageStatusDeleted
	return nil
}

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*models.Conversation
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[string]*models.Conversation)}
}

func (r *fakeConversationRepo) Create(conv *models.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := *conv
	r.conversations[conv.ConversationID] = &saved
	return nil
}

func (r *fakeConversationRepo) FindByID(id string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *conv
	return &copied, nil
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

func (r *fakeConversationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conversations)
}

type fakePrivateMessageRepo struct {
	mu       sync.Mutex
	messages map[string]*models.PrivateMessage
	failNext bool
}

func newFakePrivateMessageRepo() *fakePrivateMessageRepo {
	return &fakePrivateMessageRepo{messages: make(map[string]*models.PrivateMessage)}
}

func (r *fakePrivateMessageRepo) Create(msg *models.PrivateMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext {
		r.failNext = false
		return errStoreDown
	}
	saved := *msg
	r.messages[msg.MessageID] = &saved
	return nil
}

func (r *fakePrivateMessageRepo) FindByID(id string) (*models.PrivateMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *msg
	return &copied, nil
}

func (r *fakePrivateMessageRepo) UpdateContent(id, senderID, content string, editedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok || msg.SenderID != senderID || msg.Status == models.MessageStatusDeleted {
		return repository.ErrNotOwnerOrMissing
	}
	msg.Content = content
	msg.Status = models.MessageStatusEdited
	msg.EditedAt = &editedAt
	return nil
}

func (r *fakePrivateMessageRepo) SoftDelete(id, senderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok || msg.SenderID != senderID || msg.Status == models.MessageStatusDeleted {
		return repository.ErrNotOwnerOrMissing
	}
	msg.Status = models.MessageStatusDeleted
	return nil
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
	return out, nil
}

func (r *fakePrivateMessageRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[string]*models.Notification
	failNext      bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[string]*models.Notification)}
}

func (r *fakeNotificationRepo) Create(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext {
		r.failNext = false
		return errStoreDown
	}
	saved := *n
	r.notifications[n.NotificationID] = &saved
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
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return repository.ErrNotFound
	}
	n.Read = true
	return nil
}

var errStoreDown = errors.New("store unavailable")

// newTestClient builds a client with a buffered queue and no socket; hub
// methods only ever touch the queue.
func newTestClient(userID, displayName string, isCounselor bool) *Client {
	return &Client{
		Send:        make(chan []byte, sendBufferSize),
		UserID:      userID,
		DisplayName: displayName,
		IsCounselor: isCounselor,
	}
}

// recvEvent decodes the next queued event into v, failing the test if none
// arrives in time.
func recvEvent(t *testing.T, c *Client, v interface{}) {
	t.Helper()
	select {
	case payload := <-c.Send:
		if err := json.Unmarshal(payload, v); err != nil {
			t.Fatalf("failed to decode event %s: %v", payload, err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

// expectNoEvent asserts the client queue stays empty.
func expectNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case payload := <-c.Send:
		t.Fatalf("unexpected event: %s", payload)
	default:
	}
}
