package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"messaging-service/internal/apperrors"
	"messaging-service/internal/models"
	"messaging-service/internal/observability"
	"messaging-service/internal/rabbitmq"
	"messaging-service/internal/repositories"
)

// ModerationHandler exposes the privileged moderation console. Routes using
// it sit behind the moderator gate.
type ModerationHandler struct {
	reports       repositories.ReportRepository
	messages      repositories.MessageRepository
	conversations repositories.ConversationRepository
	notifications repositories.NotificationRepository
	publisher     rabbitmq.Publisher
	logger        zerolog.Logger
}

// NewModerationHandler builds a ModerationHandler.
func NewModerationHandler(
	reports repositories.ReportRepository,
	messages repositories.MessageRepository,
	conversations repositories.ConversationRepository,
	notifications repositories.NotificationRepository,
	publisher rabbitmq.Publisher,
	logger zerolog.Logger,
) *ModerationHandler {
	return &ModerationHandler{
		reports:       reports,
		messages:      messages,
		conversations: conversations,
		notifications: notifications,
		publisher:     publisher,
		logger:        logger,
	}
}

// ListReports returns reports newest-first, filtered by status
// (open|resolved|all).
func (h *ModerationHandler) ListReports(c *gin.Context) {
	status := c.DefaultQuery("status", "all")
	switch status {
	case "all", string(models.ReportStatusOpen), string(models.ReportStatusResolved):
	default:
		respondError(c, apperrors.InvalidArgument("status must be open, resolved or all"))
		return
	}

	reports, err := h.reports.List(c.Request.Context(), status)
	if err != nil {
		h.logger.Error().Err(err).Msg("list reports failed")
		respondError(c, err)
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// ResolveReport marks a report resolved; re-resolution succeeds with the
// original resolution metadata.
func (h *ModerationHandler) ResolveReport(c *gin.Context) {
	reportID, err := strconv.Atoi(c.Param("report_id"))
	if err != nil {
		respondError(c, apperrors.InvalidArgument("invalid report id"))
		return
	}
	moderatorID := currentUserID(c)

	report, err := h.reports.Resolve(c.Request.Context(), reportID, moderatorID)
	if err != nil {
		h.logger.Error().Err(err).Int("report_id", reportID).Msg("resolve report failed")
		respondError(c, err)
		return
	}

	event := rabbitmq.NewEvent(rabbitmq.RouteReportResolved, requestID(c), gin.H{
		"report_id":    report.ID,
		"moderator_id": moderatorID,
	})
	if err := h.publisher.Publish(c.Request.Context(), rabbitmq.RouteReportResolved, event); err != nil {
		h.logger.Warn().Err(err).Int("report_id", report.ID).Msg("event publish failed after resolve")
	}

	c.JSON(http.StatusOK, report)
}

// RemoveMessage soft-deletes a message, then rewrites notifications that
// reference it, then refreshes the conversation preview. The ordering
// matters: the preview must be recomputed after the soft-delete is durable.
func (h *ModerationHandler) RemoveMessage(c *gin.Context) {
	messageID, err := strconv.Atoi(c.Param("message_id"))
	if err != nil {
		respondError(c, apperrors.InvalidArgument("invalid message id"))
		return
	}
	moderatorID := currentUserID(c)

	msg, err := h.messages.GetByID(c.Request.Context(), messageID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.messages.SoftDelete(c.Request.Context(), messageID, moderatorID); err != nil {
		h.logger.Error().Err(err).Int("message_id", messageID).Msg("soft delete failed")
		respondError(c, err)
		return
	}

	if _, err := h.notifications.RedactForMessage(c.Request.Context(), messageID); err != nil {
		observability.IncCascadeFailure("notification_redaction")
		h.logger.Error().Err(err).
			Int("message_id", messageID).
			Msg("notification redaction failed after removal")
	}

	if err := h.conversations.RefreshPreview(c.Request.Context(), msg.ConversationID); err != nil {
		observability.IncCascadeFailure("preview_refresh")
		h.logger.Error().Err(err).
			Int("conversation_id", msg.ConversationID).
			Int("message_id", messageID).
			Msg("preview refresh failed after removal")
	}

	event := rabbitmq.NewEvent(rabbitmq.RouteMessageRemoved, requestID(c), gin.H{
		"message_id":      messageID,
		"conversation_id": msg.ConversationID,
		"moderator_id":    moderatorID,
	})
	if err := h.publisher.Publish(c.Request.Context(), rabbitmq.RouteMessageRemoved, event); err != nil {
		h.logger.Warn().Err(err).Int("message_id", messageID).Msg("event publish failed after removal")
	}

	c.Status(http.StatusNoContent)
}
