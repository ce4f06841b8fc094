package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// NotificationKind tags the payload variant of a notification.
type NotificationKind string

const (
	NotificationKindMessage    NotificationKind = "message"
	NotificationKindModeration NotificationKind = "moderation"
)

// ModerationRedactionText replaces the title and body of notifications that
// reference a message removed by moderation.
const ModerationRedactionText = "Message removed by moderation"

// NotificationBodyMaxLen bounds the notification body.
const NotificationBodyMaxLen = 2000

// NotificationPayload is a tagged union keyed by Kind. Use the constructors
// below so each kind carries a statically known set of fields.
type NotificationPayload struct {
	Kind           NotificationKind `json:"kind"`
	ConversationID int              `json:"conversation_id,omitempty"`
	SenderID       int              `json:"sender_id,omitempty"`
	MessageID      int              `json:"message_id,omitempty"`
}

// MessagePayload builds the payload for a new-message notification.
func MessagePayload(conversationID, senderID, messageID int) NotificationPayload {
	return NotificationPayload{
		Kind:           NotificationKindMessage,
		ConversationID: conversationID,
		SenderID:       senderID,
		MessageID:      messageID,
	}
}

// ModerationPayload builds the payload for a moderation notification.
func ModerationPayload(messageID int) NotificationPayload {
	return NotificationPayload{
		Kind:      NotificationKindModeration,
		MessageID: messageID,
	}
}

// Value implements driver.Valuer, storing the payload as jsonb.
func (p NotificationPayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner.
func (p *NotificationPayload) Scan(src any) error {
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, p)
	case string:
		return json.Unmarshal([]byte(data), p)
	case nil:
		*p = NotificationPayload{}
		return nil
	default:
		return errors.New("unsupported notification payload source")
	}
}

// Notification is one entry in a user's inbox.
type Notification struct {
	ID        int                 `db:"id" json:"id"`
	UserID    int                 `db:"user_id" json:"user_id"`
	Type      NotificationKind    `db:"type" json:"type"`
	Title     string              `db:"title" json:"title"`
	Body      string              `db:"body" json:"body"`
	Link      string              `db:"link" json:"link,omitempty"`
	Payload   NotificationPayload `db:"payload" json:"payload"`
	ReadAt    *time.Time          `db:"read_at" json:"read_at,omitempty"`
	CreatedAt time.Time           `db:"created_at" json:"created_at"`
}
