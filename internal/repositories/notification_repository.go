package repositories

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"messaging-service/internal/models"
)

// Notification listing limits.
const (
	DefaultNotificationLimit = 30
	MaxNotificationLimit     = 100
)

// NotificationRepository is the per-user inbox store.
type NotificationRepository interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
	ListForUser(ctx context.Context, userID int, unreadOnly bool, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID int) (int, error)
	MarkRead(ctx context.Context, notificationID, userID int) error
	MarkAllRead(ctx context.Context, userID int) error
	RedactForMessage(ctx context.Context, messageID int) (int, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// NotificationRepo is a sqlx implementation of NotificationRepository.
type NotificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepo constructs a NotificationRepo.
func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

const notificationColumns = `id, user_id, type, title, body, link, payload, read_at, created_at`

// Create appends a notification to the user's inbox.
func (r *NotificationRepo) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	var created models.Notification
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO notifications (user_id, type, title, body, link, payload)
            VALUES ($1, $2, $3, $4, $5, $6)
            RETURNING `+notificationColumns,
		n.UserID, n.Type, n.Title, n.Body, n.Link, n.Payload).StructScan(&created)
	return created, err
}

// ListForUser returns the inbox newest-first. The limit is clamped to
// [1, MaxNotificationLimit].
func (r *NotificationRepo) ListForUser(ctx context.Context, userID int, unreadOnly bool, limit int) ([]models.Notification, error) {
	limit = ClampLimit(limit, DefaultNotificationLimit, MaxNotificationLimit)
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id=$1`
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT $2`

	var notifications []models.Notification
	err := r.db.SelectContext(ctx, &notifications, query, userID, limit)
	return notifications, err
}

// UnreadCount counts unread notifications for the user.
func (r *NotificationRepo) UnreadCount(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND read_at IS NULL`, userID)
	return count, err
}

// MarkRead marks one notification read. Marking an already-read or absent
// notification is a success no-op.
func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read_at=NOW() WHERE id=$1 AND user_id=$2 AND read_at IS NULL`,
		notificationID, userID)
	return err
}

// MarkAllRead marks the whole inbox read.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read_at=NOW() WHERE user_id=$1 AND read_at IS NULL`, userID)
	return err
}

// RedactForMessage rewrites title and body of every notification whose
// payload references the removed message. Rows are redacted in place, never
// deleted; the inbox should still show that moderation occurred. Returns the
// number of rewritten rows.
func (r *NotificationRepo) RedactForMessage(ctx context.Context, messageID int) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET title=$2, body=$2
            WHERE (payload->>'message_id')::int = $1`,
		messageID, models.ModerationRedactionText)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	return int(affected), err
}

// PurgeOlderThan hard-deletes notifications created before the cutoff.
func (r *NotificationRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	return int(affected), err
}
