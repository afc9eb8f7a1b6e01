package services

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/miraheal/pulsechat/models"
	"github.com/miraheal/pulsechat/repository"
)

// DefaultTypingExpiry is how long a typing indicator stays up without a
// fresh signal before the hub broadcasts "stopped typing" on the sender's
// behalf.
const DefaultTypingExpiry = 5 * time.Second

// RoomHub owns all room membership state and drives the group-chat flow:
// persist first, broadcast after. Rooms are ephemeral; membership lives only
// as long as the connections that joined.
type RoomHub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]bool
	joined map[*Client]map[string]bool
	typing map[string]*time.Timer

	messages repository.RoomMessageRepository

	// TypingExpiry is the auto-expiry delay for typing indicators.
	TypingExpiry time.Duration
}

func NewRoomHub(messages repository.RoomMessageRepository) *RoomHub {
	return &RoomHub{
		rooms:        make(map[string]map[*Client]bool),
		joined:       make(map[*Client]map[string]bool),
		typing:       make(map[string]*time.Timer),
		messages:     messages,
		TypingExpiry: DefaultTypingExpiry,
	}
}

// Serve runs the read loop for one room connection until it closes, then
// tears down its membership. Callers run this on the connection's goroutine.
func (h *RoomHub) Serve(c *Client) {
	defer func() {
		h.Disconnect(c)
		c.CloseSend()
		c.Conn.Close()
	}()

	c.PrepareRead()
	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}
		var in RoomInbound
		if err := json.Unmarshal(raw, &in); err != nil {
			c.EnqueueJSON(ErrorEvent{Type: EventError, Code: ErrorCodeInvalid, Reason: "malformed event"})
			continue
		}
		h.Dispatch(c, in)
	}
}

// Dispatch routes one inbound room event. Errors go back to the sender only.
func (h *RoomHub) Dispatch(c *Client, in RoomInbound) {
	var err error
	switch in.Action {
	case ActionJoin:
		h.Join(c, in.RoomID)
	case ActionLeave:
		h.Leave(c, in.RoomID)
	case ActionSend:
		err = h.SendMessage(c, in.RoomID, in.Content)
	case ActionEdit:
		err = h.EditMessage(c, in.MessageID, in.Content)
	case ActionDelete:
		err = h.DeleteMessage(c, in.MessageID)
	case ActionTyping:
		h.Typing(c, in.RoomID, in.IsTyping)
	default:
		c.EnqueueJSON(ErrorEvent{Type: EventError, Code: ErrorCodeInvalid, Reason: "unknown action"})
		return
	}
	if err != nil {
		c.EnqueueJSON(NewErrorEvent(err))
	}
}

// Join adds the connection to a room. Joining twice is a no-op.
func (h *RoomHub) Join(c *Client, roomID string) {
	if roomID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][c] = true
	if h.joined[c] == nil {
		h.joined[c] = make(map[string]bool)
	}
	h.joined[c][roomID] = true
}

// Leave removes the connection from a room. Leaving an unjoined room is a
// no-op.
func (h *RoomHub) Leave(c *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, roomID)
}

func (h *RoomHub) leaveLocked(c *Client, roomID string) {
	if members, ok := h.rooms[roomID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	if rooms, ok := h.joined[c]; ok {
		delete(rooms, roomID)
	}
}

// Disconnect removes the connection from every room it joined and cancels
// its pending typing timers.
func (h *RoomHub) Disconnect(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for roomID := range h.joined[c] {
		h.leaveLocked(c, roomID)
		if timer, ok := h.typing[typingKey(roomID, c.UserID)]; ok {
			timer.Stop()
			delete(h.typing, typingKey(roomID, c.UserID))
		}
	}
	delete(h.joined, c)
}

// SendMessage persists a room message and broadcasts it to every member,
// the sender included. The broadcast never happens before the row is
// durably written.
func (h *RoomHub) SendMessage(c *Client, roomID, content string) error {
	if roomID == "" {
		return ErrMissingRoom
	}
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}

	msg := &models.RoomMessage{
		MessageID: uuid.New().String(),
		RoomID:    roomID,
		SenderID:  c.UserID,
		Content:   content,
		Status:    models.MessageStatusActive,
		CreatedAt: time.Now(),
	}
	if err := h.messages.Create(msg); err != nil {
		log.Printf("Failed to persist room message in %s: %v", roomID, err)
		return ErrStoreFailure
	}

	h.broadcast(roomID, RoomMessageEvent{
		Type:       EventMessageReceived,
		MessageID:  msg.MessageID,
		RoomID:     msg.RoomID,
		UserID:     msg.SenderID,
		Content:    msg.Content,
		CreatedAt:  msg.CreatedAt,
		SenderName: c.DisplayName,
		Deleted:    false,
		EditedAt:   nil,
	}, nil)
	return nil
}

// EditMessage rewrites a message the caller owns. The conditional update is
// the race arbiter: zero rows affected means foreign, missing or already
// deleted, and nothing is broadcast.
func (h *RoomHub) EditMessage(c *Client, messageID, content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	editedAt := time.Now()
	if err := h.messages.UpdateContent(messageID, c.UserID, content, editedAt); err != nil {
		if err == repository.ErrNotOwnerOrMissing {
			return err
		}
		log.Printf("Failed to edit room message %s: %v", messageID, err)
		return ErrStoreFailure
	}

	msg, err := h.messages.FindByID(messageID)
	if err != nil {
		log.Printf("Failed to reload edited room message %s: %v", messageID, err)
		return ErrStoreFailure
	}
	h.broadcast(msg.RoomID, MessageEditedEvent{
		Type:      EventMessageEdited,
		MessageID: msg.MessageID,
		Content:   msg.Content,
		EditedAt:  msg.EditedAt,
	}, nil)
	return nil
}

// DeleteMessage soft-deletes a message the caller owns and broadcasts a
// tombstone event carrying only the id.
func (h *RoomHub) DeleteMessage(c *Client, messageID string) error {
	if err := h.messages.SoftDelete(messageID, c.UserID); err != nil {
		if err == repository.ErrNotOwnerOrMissing {
			return err
		}
		log.Printf("Failed to delete room message %s: %v", messageID, err)
		return ErrStoreFailure
	}

	msg, err := h.messages.FindByID(messageID)
	if err != nil {
		log.Printf("Failed to reload deleted room message %s: %v", messageID, err)
		return ErrStoreFailure
	}
	h.broadcast(msg.RoomID, MessageDeletedEvent{
		Type:      EventMessageDeleted,
		MessageID: msg.MessageID,
	}, nil)
	return nil
}

// Typing broadcasts a typing indicator to the other room members and arms
// the auto-expiry: if no fresh signal lands within TypingExpiry the hub
// broadcasts "stopped typing" itself. A new signal resets the timer so a
// stale expiry never fires over a fresh indicator.
func (h *RoomHub) Typing(c *Client, roomID string, isTyping bool) {
	if roomID == "" {
		return
	}
	key := typingKey(roomID, c.UserID)

	h.mu.Lock()
	if timer, ok := h.typing[key]; ok {
		timer.Stop()
		delete(h.typing, key)
	}
	if isTyping {
		var expiry *time.Timer
		expiry = time.AfterFunc(h.TypingExpiry, func() {
			h.mu.Lock()
			// A fresh signal may have re-armed the key while this
			// callback was waiting on the lock.
			if h.typing[key] != expiry {
				h.mu.Unlock()
				return
			}
			delete(h.typing, key)
			h.mu.Unlock()
			h.broadcast(roomID, TypingEvent{
				Type:     EventUserTyping,
				RoomID:   roomID,
				Username: c.DisplayName,
				IsTyping: false,
			}, c)
		})
		h.typing[key] = expiry
	}
	h.mu.Unlock()

	h.broadcast(roomID, TypingEvent{
		Type:     EventUserTyping,
		RoomID:   roomID,
		Username: c.DisplayName,
		IsTyping: isTyping,
	}, c)
}

// MemberCount reports current room membership.
func (h *RoomHub) MemberCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// broadcast fans an event out to every member of a room, skipping exclude
// when set.
func (h *RoomHub) broadcast(roomID string, v interface{}, exclude *Client) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("Failed to marshal broadcast for room %s: %v", roomID, err)
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[roomID]))
	for member := range h.rooms[roomID] {
		if member == exclude {
			continue
		}
		members = append(members, member)
	}
	h.mu.RUnlock()

	for _, member := range members {
		member.Enqueue(payload)
	}
}

func typingKey(roomID, userID string) string {
	return roomID + "|" + userID
}
