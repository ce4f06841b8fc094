package models

import "time"

// ReportStatus is the moderation lifecycle state of a report.
type ReportStatus string

const (
	ReportStatusOpen     ReportStatus = "open"
	ReportStatusResolved ReportStatus = "resolved"
)

// ReportReasonMaxLen bounds the free-form reason text.
const ReportReasonMaxLen = 2000

// Report is a user complaint about another user, optionally anchored to a
// message or conversation. Message and conversation ids are weak references;
// purging the referenced entity does not delete the report.
type Report struct {
	ID             int          `db:"id" json:"id"`
	ReporterID     int          `db:"reporter_id" json:"reporter_id"`
	TargetUserID   int          `db:"target_user_id" json:"target_user_id"`
	MessageID      *int         `db:"message_id" json:"message_id,omitempty"`
	ConversationID *int         `db:"conversation_id" json:"conversation_id,omitempty"`
	Reason         string       `db:"reason" json:"reason"`
	Status         ReportStatus `db:"status" json:"status"`
	ResolvedAt     *time.Time   `db:"resolved_at" json:"resolved_at,omitempty"`
	ResolvedBy     *int         `db:"resolved_by" json:"resolved_by,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}
