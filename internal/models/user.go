package models

// User is the read-only view of a platform account the messaging core needs.
// Accounts are owned by the wider platform; this service only looks them up.
type User struct {
	ID          int    `db:"id" json:"id"`
	Username    string `db:"username" json:"username"`
	IsModerator bool   `db:"is_moderator" json:"is_moderator"`
}
