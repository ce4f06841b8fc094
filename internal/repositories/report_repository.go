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

// ReportRepository stores user complaints for the moderation console.
type ReportRepository interface {
	Create(ctx context.Context, report models.Report) (models.Report, error)
	GetByID(ctx context.Context, reportID int) (models.Report, error)
	List(ctx context.Context, status string) ([]models.Report, error)
	Resolve(ctx context.Context, reportID, moderatorID int) (models.Report, error)
	PurgeResolvedOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// ReportRepo is a sqlx implementation of ReportRepository.
type ReportRepo struct {
	db *sqlx.DB
}

// NewReportRepo constructs a ReportRepo.
func NewReportRepo(db *sqlx.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

const reportColumns = `id, reporter_id, target_user_id, message_id, conversation_id, reason, status, resolved_at, resolved_by, created_at`

// Create stores a new open report.
func (r *ReportRepo) Create(ctx context.Context, report models.Report) (models.Report, error) {
	var created models.Report
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO reports (reporter_id, target_user_id, message_id, conversation_id, reason)
            VALUES ($1, $2, $3, $4, $5)
            RETURNING `+reportColumns,
		report.ReporterID, report.TargetUserID, report.MessageID, report.ConversationID, report.Reason).
		StructScan(&created)
	return created, err
}

// GetByID fetches a report.
func (r *ReportRepo) GetByID(ctx context.Context, reportID int) (models.Report, error) {
	var report models.Report
	err := r.db.GetContext(ctx, &report,
		`SELECT `+reportColumns+` FROM reports WHERE id=$1`, reportID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Report{}, apperrors.NotFound("report not found")
	}
	return report, err
}

// List returns reports newest-first, optionally filtered by status. An empty
// or "all" status returns everything.
func (r *ReportRepo) List(ctx context.Context, status string) ([]models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports`
	args := []any{}
	if status != "" && status != "all" {
		query += ` WHERE status=$1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	var reports []models.Report
	err := r.db.SelectContext(ctx, &reports, query, args...)
	return reports, err
}

// Resolve marks a report resolved. Re-resolving keeps the original
// resolution metadata and succeeds.
func (r *ReportRepo) Resolve(ctx context.Context, reportID, moderatorID int) (models.Report, error) {
	var resolved models.Report
	err := r.db.QueryRowxContext(ctx,
		`UPDATE reports SET status=$2, resolved_at=COALESCE(resolved_at, NOW()),
            resolved_by=COALESCE(resolved_by, $3)
            WHERE id=$1
            RETURNING `+reportColumns,
		reportID, models.ReportStatusResolved, moderatorID).StructScan(&resolved)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Report{}, apperrors.NotFound("report not found")
	}
	return resolved, err
}

// PurgeResolvedOlderThan hard-deletes reports that are resolved and whose
// resolution predates the cutoff. Open reports survive regardless of age.
func (r *ReportRepo) PurgeResolvedOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM reports WHERE status=$1 AND resolved_at IS NOT NULL AND resolved_at < $2`,
		models.ReportStatusResolved, cutoff)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	return int(affected), err
}
