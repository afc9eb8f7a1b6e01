package services

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/miraheal/pulsechat/models"
	"github.com/miraheal/pulsechat/repository"
)

// ChatHub drives authenticated user/counselor private messaging. Delivery
// goes through the presence registry: the sender's own connections get a
// confirmation and the recipient's connections, if any, get the message.
// An offline recipient is not an error; they re-fetch history later.
type ChatHub struct {
	presence      *Presence
	users         repository.UserRepository
	conversations repository.ConversationRepository
	messages      repository.PrivateMessageRepository
}

func NewChatHub(
	presence *Presence,
	users repository.UserRepository,
	conversations repository.ConversationRepository,
	messages repository.PrivateMessageRepository,
) *ChatHub {
	return &ChatHub{
		presence:      presence,
		users:         users,
		conversations: conversations,
		messages:      messages,
	}
}

// Presence exposes the registry so the gateway can register connections.
func (h *ChatHub) Presence() *Presence {
	return h.presence
}

// Serve runs the read loop for one chat connection until it closes.
func (h *ChatHub) Serve(c *Client) {
	h.presence.Register(c)
	defer func() {
		h.presence.Unregister(c)
		c.CloseSend()
		c.Conn.Close()
	}()

	c.PrepareRead()
	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}
		var in ChatInbound
		if err := json.Unmarshal(raw, &in); err != nil {
			c.EnqueueJSON(ErrorEvent{Type: EventError, Code: ErrorCodeInvalid, Reason: "malformed event"})
			continue
		}
		h.Dispatch(c, in)
	}
}

// Dispatch routes one inbound chat event. Errors go back to the sender only.
func (h *ChatHub) Dispatch(c *Client, in ChatInbound) {
	var err error
	switch in.Action {
	case ActionSend:
		err = h.SendMessage(c, in.RecipientID, in.Content)
	case ActionEdit:
		err = h.EditMessage(c, in.MessageID, in.Content)
	case ActionDelete:
		err = h.DeleteMessage(c, in.MessageID)
	default:
		c.EnqueueJSON(ErrorEvent{Type: EventError, Code: ErrorCodeInvalid, Reason: "unknown action"})
		return
	}
	if err != nil {
		c.EnqueueJSON(NewErrorEvent(err))
	}
}

// SendMessage validates the pair, resolves or lazily creates the
// conversation, persists the message and then delivers it. Chat is only
// valid across the user/counselor boundary.
func (h *ChatHub) SendMessage(c *Client, recipientID, content string) error {
	if recipientID == "" {
		return ErrMissingRecipient
	}
	if recipientID == c.UserID {
		return ErrSelfMessage
	}
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}

	recipient, err := h.users.FindByID(recipientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecipientUnknown
		}
		log.Printf("Failed to load recipient %s: %v", recipientID, err)
		return ErrStoreFailure
	}
	// Capability flags come from the store, not the handshake snapshot; a
	// revoked counselor loses eligibility immediately.
	sender, err := h.users.FindByID(c.UserID)
	if err != nil {
		log.Printf("Failed to load sender %s: %v", c.UserID, err)
		return ErrStoreFailure
	}
	if recipient.IsCounselor == sender.IsCounselor {
		return ErrPairNotEligible
	}

	conv, err := h.resolveConversation(sender, recipient)
	if err != nil {
		return err
	}

	msg := &models.PrivateMessage{
		MessageID:      uuid.New().String(),
		ConversationID: conv.ConversationID,
		SenderID:       c.UserID,
		Content:        content,
		Status:         models.MessageStatusActive,
		CreatedAt:      time.Now(),
	}
	if err := h.messages.Create(msg); err != nil {
		log.Printf("Failed to persist private message in %s: %v", conv.ConversationID, err)
		return ErrStoreFailure
	}

	event := PrivateMessageEvent{
		MessageID:      msg.MessageID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
		SenderName:     c.DisplayName,
	}

	event.Type = EventMessageSent
	h.presence.Deliver(c.UserID, event)

	event.Type = EventMessageReceived
	h.presence.Deliver(recipientID, event)
	return nil
}

// EditMessage rewrites a message the caller sent and notifies both parties'
// live connections. Same conditional-update arbitration as room edits.
func (h *ChatHub) EditMessage(c *Client, messageID, content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	editedAt := time.Now()
	if err := h.messages.UpdateContent(messageID, c.UserID, content, editedAt); err != nil {
		if err == repository.ErrNotOwnerOrMissing {
			return err
		}
		log.Printf("Failed to edit private message %s: %v", messageID, err)
		return ErrStoreFailure
	}

	msg, counterpartID, err := h.reloadWithCounterpart(messageID, c.UserID)
	if err != nil {
		return err
	}
	event := PrivateMessageEvent{
		Type:           EventMessageEdited,
		MessageID:      msg.MessageID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
		EditedAt:       msg.EditedAt,
		SenderName:     c.DisplayName,
	}
	h.presence.Deliver(c.UserID, event)
	h.presence.Deliver(counterpartID, event)
	return nil
}

// DeleteMessage soft-deletes a message the caller sent and tombstones it on
// both parties' live connections.
func (h *ChatHub) DeleteMessage(c *Client, messageID string) error {
	if err := h.messages.SoftDelete(messageID, c.UserID); err != nil {
		if err == repository.ErrNotOwnerOrMissing {
			return err
		}
		log.Printf("Failed to delete private message %s: %v", messageID, err)
		return ErrStoreFailure
	}

	msg, counterpartID, err := h.reloadWithCounterpart(messageID, c.UserID)
	if err != nil {
		return err
	}
	event := MessageDeletedEvent{Type: EventMessageDeleted, MessageID: msg.MessageID}
	h.presence.Deliver(c.UserID, event)
	h.presence.Deliver(counterpartID, event)
	return nil
}

// resolveConversation finds the pair's conversation or creates it, storing
// the counselor side in the counselor column no matter who started the chat.
func (h *ChatHub) resolveConversation(sender, recipient *models.User) (*models.Conversation, error) {
	userID, counselorID := sender.ID, recipient.ID
	if sender.IsCounselor {
		userID, counselorID = recipient.ID, sender.ID
	}

	conv, err := h.conversations.FindByPair(userID, counselorID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		log.Printf("Failed to look up conversation for %s/%s: %v", userID, counselorID, err)
		return nil, ErrStoreFailure
	}

	conv = &models.Conversation{
		ConversationID: uuid.New().String(),
		UserID:         userID,
		CounselorID:    counselorID,
		CreatedAt:      time.Now(),
	}
	if err := h.conversations.Create(conv); err != nil {
		log.Printf("Failed to create conversation for %s/%s: %v", userID, counselorID, err)
		return nil, ErrStoreFailure
	}
	return conv, nil
}

func (h *ChatHub) reloadWithCounterpart(messageID, requesterID string) (*models.PrivateMessage, string, error) {
	msg, err := h.messages.FindByID(messageID)
	if err != nil {
		log.Printf("Failed to reload private message %s: %v", messageID, err)
		return nil, "", ErrStoreFailure
	}
	conv, err := h.conversations.FindByID(msg.ConversationID)
	if err != nil {
		log.Printf("Failed to load conversation %s: %v", msg.ConversationID, err)
		return nil, "", ErrStoreFailure
	}
	return msg, conv.Counterpart(requesterID), nil
}
