package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"messaging-service/internal/apperrors"
	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
)

// ReportHandler accepts user reports for the moderation console.
type ReportHandler struct {
	reports       repositories.ReportRepository
	messages      repositories.MessageRepository
	conversations repositories.ConversationRepository
	users         repositories.UserDirectory
	logger        zerolog.Logger
}

// NewReportHandler builds a ReportHandler.
func NewReportHandler(
	reports repositories.ReportRepository,
	messages repositories.MessageRepository,
	conversations repositories.ConversationRepository,
	users repositories.UserDirectory,
	logger zerolog.Logger,
) *ReportHandler {
	return &ReportHandler{
		reports:       reports,
		messages:      messages,
		conversations: conversations,
		users:         users,
		logger:        logger,
	}
}

// SubmitReport validates and stores a report. A referenced message or
// conversation must actually involve the target, and the reporter must be a
// participant themselves.
func (h *ReportHandler) SubmitReport(c *gin.Context) {
	var req struct {
		TargetUserID   int    `json:"target_user_id" binding:"required"`
		Reason         string `json:"reason"`
		MessageID      *int   `json:"message_id"`
		ConversationID *int   `json:"conversation_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidArgument("target_user_id is required"))
		return
	}

	reporterID := currentUserID(c)
	if req.TargetUserID == reporterID {
		respondError(c, apperrors.InvalidArgument("cannot report yourself"))
		return
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		respondError(c, apperrors.InvalidArgument("reason must not be empty"))
		return
	}
	if len([]rune(reason)) > models.ReportReasonMaxLen {
		respondError(c, apperrors.InvalidArgument("reason exceeds 2000 characters"))
		return
	}

	exists, err := h.users.Exists(c.Request.Context(), req.TargetUserID)
	if err != nil {
		h.logger.Error().Err(err).Msg("user lookup failed")
		respondError(c, err)
		return
	}
	if !exists {
		respondError(c, apperrors.NotFound("user not found"))
		return
	}

	if req.MessageID != nil {
		msg, err := h.messages.GetByID(c.Request.Context(), *req.MessageID)
		if err != nil {
			respondError(c, err)
			return
		}
		if msg.SenderID != reporterID && msg.RecipientID != reporterID {
			respondError(c, apperrors.Forbidden("not a participant of the reported message"))
			return
		}
		if msg.SenderID != req.TargetUserID && msg.RecipientID != req.TargetUserID {
			respondError(c, apperrors.InvalidArgument("reported message does not involve the target user"))
			return
		}
		if req.ConversationID != nil && msg.ConversationID != *req.ConversationID {
			respondError(c, apperrors.InvalidArgument("message does not belong to the reported conversation"))
			return
		}
	}

	if req.ConversationID != nil {
		conv, err := h.conversations.GetByID(c.Request.Context(), *req.ConversationID)
		if err != nil {
			respondError(c, err)
			return
		}
		if !conv.HasParticipant(reporterID) {
			respondError(c, apperrors.Forbidden("not a participant of the reported conversation"))
			return
		}
		if !conv.HasParticipant(req.TargetUserID) {
			respondError(c, apperrors.InvalidArgument("reported conversation does not involve the target user"))
			return
		}
	}

	report, err := h.reports.Create(c.Request.Context(), models.Report{
		ReporterID:     reporterID,
		TargetUserID:   req.TargetUserID,
		MessageID:      req.MessageID,
		ConversationID: req.ConversationID,
		Reason:         reason,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("store report failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}
