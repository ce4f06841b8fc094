package models

import "time"

// Block is a directed suppression fact: blocker no longer wants contact with
// blocked. Messaging is gated when a block exists in either direction.
type Block struct {
	BlockerID int       `db:"blocker_id" json:"blocker_id"`
	BlockedID int       `db:"blocked_id" json:"blocked_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BlockStatus reports both directions independently; a user can have blocked
// and be blocked by the same counterpart at the same time.
type BlockStatus struct {
	Blocked   bool `json:"blocked"`
	BlockedBy bool `json:"blocked_by"`
}
