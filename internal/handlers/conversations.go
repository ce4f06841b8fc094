package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"messaging-service/internal/apperrors"
	"messaging-service/internal/models"
	"messaging-service/internal/notify"
	"messaging-service/internal/rabbitmq"
	"messaging-service/internal/repositories"
)

// ConversationHandler manages conversation and message endpoints.
type ConversationHandler struct {
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	blocks        repositories.BlockRepository
	users         repositories.UserDirectory
	notifier      notify.Notifier
	publisher     rabbitmq.Publisher
	logger        zerolog.Logger
}

// NewConversationHandler builds a ConversationHandler.
func NewConversationHandler(
	conversations repositories.ConversationRepository,
	messages repositories.MessageRepository,
	blocks repositories.BlockRepository,
	users repositories.UserDirectory,
	notifier notify.Notifier,
	publisher rabbitmq.Publisher,
	logger zerolog.Logger,
) *ConversationHandler {
	return &ConversationHandler{
		conversations: conversations,
		messages:      messages,
		blocks:        blocks,
		users:         users,
		notifier:      notifier,
		publisher:     publisher,
		logger:        logger,
	}
}

// ListConversations returns the caller's conversations with unread counts,
// block-filtered.
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	userID := currentUserID(c)

	summaries, err := h.conversations.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Int("user_id", userID).Msg("list conversations failed")
		respondError(c, err)
		return
	}
	if summaries == nil {
		summaries = []models.ConversationSummary{}
	}

	c.JSON(http.StatusOK, gin.H{"conversations": summaries})
}

// StartConversation creates or returns the conversation with the recipient.
func (h *ConversationHandler) StartConversation(c *gin.Context) {
	var req struct {
		RecipientID int `json:"recipient_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidArgument("recipient_id is required"))
		return
	}

	userID := currentUserID(c)
	if req.RecipientID == userID {
		respondError(c, apperrors.InvalidArgument("cannot start a conversation with yourself"))
		return
	}

	exists, err := h.users.Exists(c.Request.Context(), req.RecipientID)
	if err != nil {
		h.logger.Error().Err(err).Msg("user lookup failed")
		respondError(c, err)
		return
	}
	if !exists {
		respondError(c, apperrors.NotFound("user not found"))
		return
	}

	blocked, err := h.blocks.IsBlockedBetween(c.Request.Context(), userID, req.RecipientID)
	if err != nil {
		h.logger.Error().Err(err).Msg("block lookup failed")
		respondError(c, err)
		return
	}
	if blocked {
		respondError(c, apperrors.Forbidden(blockedMessage))
		return
	}

	conv, err := h.conversations.GetOrCreate(c.Request.Context(), userID, req.RecipientID)
	if err != nil {
		h.logger.Error().Err(err).Msg("get or create conversation failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, conv)
}

// UnreadCount returns the caller's total unread messages, excluding blocked
// counterparts.
func (h *ConversationHandler) UnreadCount(c *gin.Context) {
	userID := currentUserID(c)

	count, err := h.conversations.TotalUnread(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Int("user_id", userID).Msg("unread count failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// MarkConversationRead marks every unread message addressed to the caller in
// the conversation read, together with the matching notifications.
func (h *ConversationHandler) MarkConversationRead(c *gin.Context) {
	conversationID, err := strconv.Atoi(c.Param("conversation_id"))
	if err != nil {
		respondError(c, apperrors.InvalidArgument("invalid conversation id"))
		return
	}
	userID := currentUserID(c)

	if _, err := h.authorizeParticipant(c, conversationID, userID); err != nil {
		respondError(c, err)
		return
	}

	if err := h.conversations.MarkRead(c.Request.Context(), conversationID, userID); err != nil {
		h.logger.Error().Err(err).Int("conversation_id", conversationID).Msg("mark read failed")
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// authorizeParticipant loads the conversation and applies the membership and
// block gates shared by every per-conversation operation.
func (h *ConversationHandler) authorizeParticipant(c *gin.Context, conversationID, userID int) (models.Conversation, error) {
	conv, err := h.conversations.GetByID(c.Request.Context(), conversationID)
	if err != nil {
		return models.Conversation{}, err
	}
	if !conv.HasParticipant(userID) {
		return models.Conversation{}, apperrors.Forbidden("not a conversation participant")
	}

	blocked, err := h.blocks.IsBlockedBetween(c.Request.Context(), conv.User1ID, conv.User2ID)
	if err != nil {
		return models.Conversation{}, err
	}
	if blocked {
		return models.Conversation{}, apperrors.Forbidden(blockedMessage)
	}
	return conv, nil
}
