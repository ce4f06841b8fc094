package models

import (
	"database/sql"
	"time"
)

// PreviewMaxLen bounds the denormalized last-message snapshot.
const PreviewMaxLen = 180

// Conversation is the unique two-party thread between exactly two users.
// Participants are stored in canonical order (User1ID < User2ID) so the
// pair uniqueness can be enforced with a plain unique index.
type Conversation struct {
	ID              int            `db:"id" json:"id"`
	User1ID         int            `db:"user1_id" json:"user1_id"`
	User2ID         int            `db:"user2_id" json:"user2_id"`
	LastMessageText sql.NullString `db:"last_message_text" json:"-"`
	LastMessageAt   sql.NullTime   `db:"last_message_at" json:"-"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// OtherParticipant returns the counterpart of userID in the conversation.
func (c Conversation) OtherParticipant(userID int) int {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// HasParticipant reports whether userID belongs to the conversation.
func (c Conversation) HasParticipant(userID int) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// ConversationSummary is the API view of a conversation for one user.
type ConversationSummary struct {
	ConversationID  int        `db:"id" json:"conversation_id"`
	OtherUserID     int        `db:"other_user_id" json:"other_user_id"`
	LastMessageText string     `db:"last_message_text" json:"last_message_text,omitempty"`
	LastMessageAt   *time.Time `db:"last_message_at" json:"last_message_at,omitempty"`
	UnreadCount     int        `db:"unread_count" json:"unread_count"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// TruncatePreview shortens a message body to the preview limit.
func TruncatePreview(body string) string {
	if len(body) <= PreviewMaxLen {
		return body
	}
	runes := []rune(body)
	if len(runes) <= PreviewMaxLen {
		return body
	}
	return string(runes[:PreviewMaxLen])
}
