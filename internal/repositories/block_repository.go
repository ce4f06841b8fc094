package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"messaging-service/internal/models"
)

// BlockRepository stores directed "blocker blocks blocked" facts.
type BlockRepository interface {
	IsBlockedBetween(ctx context.Context, userA, userB int) (bool, error)
	Block(ctx context.Context, blockerID, targetID int) error
	Unblock(ctx context.Context, blockerID, targetID int) error
	Status(ctx context.Context, userID, otherID int) (models.BlockStatus, error)
	ListForUser(ctx context.Context, userID int) ([]models.Block, error)
}

// BlockRepo is a sqlx implementation of BlockRepository.
type BlockRepo struct {
	db *sqlx.DB
}

// NewBlockRepo constructs a BlockRepo.
func NewBlockRepo(db *sqlx.DB) *BlockRepo {
	return &BlockRepo{db: db}
}

// IsBlockedBetween reports whether a block exists in either direction.
func (r *BlockRepo) IsBlockedBetween(ctx context.Context, userA, userB int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM blocks
            WHERE (blocker_id=$1 AND blocked_id=$2) OR (blocker_id=$2 AND blocked_id=$1))`,
		userA, userB)
	return exists, err
}

// Block records the directed fact. Re-blocking is a no-op success.
func (r *BlockRepo) Block(ctx context.Context, blockerID, targetID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO blocks (blocker_id, blocked_id) VALUES ($1, $2)
            ON CONFLICT (blocker_id, blocked_id) DO NOTHING`,
		blockerID, targetID)
	return err
}

// Unblock removes the directed fact. Absent rows are not an error.
func (r *BlockRepo) Unblock(ctx context.Context, blockerID, targetID int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM blocks WHERE blocker_id=$1 AND blocked_id=$2`, blockerID, targetID)
	return err
}

// Status looks up both directions independently.
func (r *BlockRepo) Status(ctx context.Context, userID, otherID int) (models.BlockStatus, error) {
	var status models.BlockStatus
	if err := r.db.GetContext(ctx, &status.Blocked,
		`SELECT EXISTS(SELECT 1 FROM blocks WHERE blocker_id=$1 AND blocked_id=$2)`,
		userID, otherID); err != nil {
		return models.BlockStatus{}, err
	}
	if err := r.db.GetContext(ctx, &status.BlockedBy,
		`SELECT EXISTS(SELECT 1 FROM blocks WHERE blocker_id=$1 AND blocked_id=$2)`,
		otherID, userID); err != nil {
		return models.BlockStatus{}, err
	}
	return status, nil
}

// ListForUser returns the blocks issued by the user, newest first.
func (r *BlockRepo) ListForUser(ctx context.Context, userID int) ([]models.Block, error) {
	var blocks []models.Block
	err := r.db.SelectContext(ctx, &blocks,
		`SELECT blocker_id, blocked_id, created_at FROM blocks
            WHERE blocker_id=$1 ORDER BY created_at DESC`, userID)
	return blocks, err
}
