package models

import "time"

// ModerationPlaceholder replaces the body of a message removed by a
// moderator. Once set, the body is immutable.
const ModerationPlaceholder = "This message was removed by moderation."

// MessageBodyMaxLen is the maximum accepted message body length after trimming.
const MessageBodyMaxLen = 2000

// Message is a single entry in a conversation. Recipient is derived from the
// conversation participants, never supplied by the client.
type Message struct {
	ID             int        `db:"id" json:"id"`
	ConversationID int        `db:"conversation_id" json:"conversation_id"`
	SenderID       int        `db:"sender_id" json:"sender_id"`
	RecipientID    int        `db:"recipient_id" json:"recipient_id"`
	Body           string     `db:"body" json:"body"`
	IsDeleted      bool       `db:"is_deleted" json:"is_deleted"`
	DeletedAt      *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	DeletedBy      *int       `db:"deleted_by" json:"deleted_by,omitempty"`
	ReadAt         *time.Time `db:"read_at" json:"read_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}
