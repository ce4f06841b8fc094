package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"messaging-service/internal/apperrors"
	"messaging-service/internal/models"
)

// Message listing limits.
const (
	DefaultMessageLimit = 50
	MaxMessageLimit     = 200
)

// MessageRepository is the append-only per-conversation message log.
type MessageRepository interface {
	Create(ctx context.Context, conversationID, senderID, recipientID int, body string) (models.Message, error)
	ListForConversation(ctx context.Context, conversationID, limit int) ([]models.Message, error)
	GetByID(ctx context.Context, messageID int) (models.Message, error)
	SoftDelete(ctx context.Context, messageID, moderatorID int) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) ([]int, int, error)
}

// MessageRepo is a sqlx implementation of MessageRepository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

const messageColumns = `id, conversation_id, sender_id, recipient_id, body, is_deleted, deleted_at, deleted_by, read_at, created_at`

// Create appends a message to the conversation log.
func (r *MessageRepo) Create(ctx context.Context, conversationID, senderID, recipientID int, body string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO messages (conversation_id, sender_id, recipient_id, body)
            VALUES ($1, $2, $3, $4)
            RETURNING `+messageColumns,
		conversationID, senderID, recipientID, body).StructScan(&msg)
	return msg, err
}

// ListForConversation returns messages in ascending creation order; clients
// render a scrollback, so oldest comes first. The limit is clamped to
// [1, MaxMessageLimit].
func (r *MessageRepo) ListForConversation(ctx context.Context, conversationID, limit int) ([]models.Message, error) {
	limit = ClampLimit(limit, DefaultMessageLimit, MaxMessageLimit)
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT `+messageColumns+` FROM messages
            WHERE conversation_id=$1
            ORDER BY created_at ASC, id ASC
            LIMIT $2`, conversationID, limit)
	return msgs, err
}

// GetByID fetches a single message.
func (r *MessageRepo) GetByID(ctx context.Context, messageID int) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg,
		`SELECT `+messageColumns+` FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, apperrors.NotFound("message not found")
	}
	return msg, err
}

// SoftDelete replaces the body with the moderation placeholder and records
// who removed it. Already-removed messages keep their original deletion
// record, so re-removal is a no-op success.
func (r *MessageRepo) SoftDelete(ctx context.Context, messageID, moderatorID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET body=$2, is_deleted=TRUE, deleted_at=NOW(), deleted_by=$3
            WHERE id=$1 AND is_deleted=FALSE`,
		messageID, models.ModerationPlaceholder, moderatorID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Distinguish a missing row from an already-deleted one.
		var exists bool
		if err := r.db.GetContext(ctx, &exists,
			`SELECT EXISTS(SELECT 1 FROM messages WHERE id=$1)`, messageID); err != nil {
			return err
		}
		if !exists {
			return apperrors.NotFound("message not found")
		}
	}
	return nil
}

// PurgeOlderThan hard-deletes messages created before the cutoff. It returns
// the distinct conversations that lost rows, so previews can be recomputed
// once per conversation rather than once per message, plus the purged row
// count.
func (r *MessageRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) ([]int, int, error) {
	rows, err := r.db.QueryxContext(ctx,
		`DELETE FROM messages WHERE created_at < $1 RETURNING conversation_id`, cutoff)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	purged := 0
	seen := map[int]struct{}{}
	var conversationIDs []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, 0, err
		}
		purged++
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			conversationIDs = append(conversationIDs, id)
		}
	}
	return conversationIDs, purged, rows.Err()
}

// ClampLimit normalizes a client-supplied page size.
func ClampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
