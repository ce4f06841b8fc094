package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"messaging-service/internal/apperrors"
	"messaging-service/internal/models"
)

// ConversationRepository owns the two-party conversation entity, its
// idempotent creation and its denormalized preview.
type ConversationRepository interface {
	GetOrCreate(ctx context.Context, userA, userB int) (models.Conversation, error)
	GetByID(ctx context.Context, conversationID int) (models.Conversation, error)
	ListForUser(ctx context.Context, userID int) ([]models.ConversationSummary, error)
	TotalUnread(ctx context.Context, userID int) (int, error)
	RefreshPreview(ctx context.Context, conversationID int) error
	MarkRead(ctx context.Context, conversationID, userID int) error
}

// ConversationRepo is a sqlx implementation of ConversationRepository.
type ConversationRepo struct {
	db *sqlx.DB
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(db *sqlx.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

const conversationColumns = `id, user1_id, user2_id, last_message_text, last_message_at, created_at, updated_at`

// GetOrCreate returns the conversation for the unordered pair, creating it
// on first contact. A uniqueness conflict from a concurrent first contact is
// resolved by re-reading the winner's row.
func (r *ConversationRepo) GetOrCreate(ctx context.Context, userA, userB int) (models.Conversation, error) {
	user1, user2 := userA, userB
	if user1 > user2 {
		user1, user2 = user2, user1
	}

	conv, err := r.getByPair(ctx, user1, user2)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO conversations (user1_id, user2_id) VALUES ($1, $2)
            ON CONFLICT (user1_id, user2_id) DO NOTHING
            RETURNING `+conversationColumns,
		user1, user2).StructScan(&conv)
	if errors.Is(err, sql.ErrNoRows) {
		// Lost the race; the other side's insert won.
		return r.getByPair(ctx, user1, user2)
	}
	return conv, err
}

func (r *ConversationRepo) getByPair(ctx context.Context, user1, user2 int) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv,
		`SELECT `+conversationColumns+` FROM conversations WHERE user1_id=$1 AND user2_id=$2`,
		user1, user2)
	return conv, err
}

// GetByID fetches a conversation by id.
func (r *ConversationRepo) GetByID(ctx context.Context, conversationID int) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv,
		`SELECT `+conversationColumns+` FROM conversations WHERE id=$1`, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, apperrors.NotFound("conversation not found")
	}
	return conv, err
}

// ListForUser returns the user's conversations with per-conversation unread
// counts. Conversations whose counterpart is blocked in either direction are
// filtered out here; the rows themselves are untouched.
func (r *ConversationRepo) ListForUser(ctx context.Context, userID int) ([]models.ConversationSummary, error) {
	var summaries []models.ConversationSummary
	err := r.db.SelectContext(ctx, &summaries, `
        SELECT c.id,
               CASE WHEN c.user1_id=$1 THEN c.user2_id ELSE c.user1_id END AS other_user_id,
               COALESCE(c.last_message_text, '') AS last_message_text,
               c.last_message_at,
               (SELECT COUNT(*) FROM messages m
                   WHERE m.conversation_id=c.id AND m.recipient_id=$1
                     AND m.read_at IS NULL AND m.is_deleted=FALSE) AS unread_count,
               c.created_at
        FROM conversations c
        WHERE (c.user1_id=$1 OR c.user2_id=$1)
          AND NOT EXISTS (SELECT 1 FROM blocks b
              WHERE (b.blocker_id=c.user1_id AND b.blocked_id=c.user2_id)
                 OR (b.blocker_id=c.user2_id AND b.blocked_id=c.user1_id))
        ORDER BY COALESCE(c.last_message_at, c.created_at) DESC`, userID)
	return summaries, err
}

// TotalUnread counts unread messages addressed to the user across all
// conversations, excluding blocked counterparts.
func (r *ConversationRepo) TotalUnread(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
        SELECT COUNT(*)
        FROM messages m
        JOIN conversations c ON c.id = m.conversation_id
        WHERE m.recipient_id=$1 AND m.read_at IS NULL AND m.is_deleted=FALSE
          AND NOT EXISTS (SELECT 1 FROM blocks b
              WHERE (b.blocker_id=c.user1_id AND b.blocked_id=c.user2_id)
                 OR (b.blocker_id=c.user2_id AND b.blocked_id=c.user1_id))`, userID)
	return count, err
}

// RefreshPreview re-derives the denormalized preview from the newest
// non-deleted message, clearing it when none remain. The statement computes
// from current store contents only, so repeated or concurrent invocations
// converge on the same state.
func (r *ConversationRepo) RefreshPreview(ctx context.Context, conversationID int) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE conversations SET
            last_message_text = (SELECT LEFT(body, 180) FROM messages
                WHERE conversation_id=$1 AND is_deleted=FALSE
                ORDER BY created_at DESC, id DESC LIMIT 1),
            last_message_at = (SELECT created_at FROM messages
                WHERE conversation_id=$1 AND is_deleted=FALSE
                ORDER BY created_at DESC, id DESC LIMIT 1),
            updated_at = NOW()
        WHERE id=$1`, conversationID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFound("conversation not found")
	}
	return nil
}

// MarkRead sets read_at on every unread message addressed to the user in the
// conversation and marks the matching message notifications read. Both
// updates commit together so the unread badge never splits.
func (r *ConversationRepo) MarkRead(ctx context.Context, conversationID, userID int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE messages SET read_at=NOW()
            WHERE conversation_id=$1 AND recipient_id=$2 AND read_at IS NULL`,
		conversationID, userID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE notifications SET read_at=NOW()
            WHERE user_id=$2 AND type=$3 AND read_at IS NULL
              AND (payload->>'conversation_id')::int = $1`,
		conversationID, userID, models.NotificationKindMessage); err != nil {
		return err
	}

	return tx.Commit()
}
