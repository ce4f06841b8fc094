package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"messaging-service/internal/apperrors"
	"messaging-service/internal/models"
	"messaging-service/internal/observability"
	"messaging-service/internal/rabbitmq"
)

// ListMessages returns the conversation scrollback, oldest first.
func (h *ConversationHandler) ListMessages(c *gin.Context) {
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

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	msgs, err := h.messages.ListForConversation(c.Request.Context(), conversationID, limit)
	if err != nil {
		h.logger.Error().Err(err).Int("conversation_id", conversationID).Msg("list messages failed")
		respondError(c, err)
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// SendMessage appends a message to the conversation, refreshes the preview
// and notifies the recipient. The message is durable once stored; cascade
// failures are recorded for reconciliation, never rolled back.
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	conversationID, err := strconv.Atoi(c.Param("conversation_id"))
	if err != nil {
		respondError(c, apperrors.InvalidArgument("invalid conversation id"))
		return
	}
	userID := currentUserID(c)

	conv, err := h.authorizeParticipant(c, conversationID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidArgument("body is required"))
		return
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		respondError(c, apperrors.InvalidArgument("message body must not be empty"))
		return
	}
	if len([]rune(body)) > models.MessageBodyMaxLen {
		respondError(c, apperrors.InvalidArgument("message body exceeds 2000 characters"))
		return
	}

	recipientID := conv.OtherParticipant(userID)
	msg, err := h.messages.Create(c.Request.Context(), conversationID, userID, recipientID, body)
	if err != nil {
		h.logger.Error().Err(err).Int("conversation_id", conversationID).Msg("store message failed")
		respondError(c, err)
		return
	}
	observability.IncMessageSent()

	if err := h.conversations.RefreshPreview(c.Request.Context(), conversationID); err != nil {
		observability.IncCascadeFailure("preview_refresh")
		h.logger.Error().Err(err).
			Int("conversation_id", conversationID).
			Int("message_id", msg.ID).
			Msg("preview refresh failed after send")
	}

	if err := h.notifier.MessageReceived(c.Request.Context(), requestID(c), msg); err != nil {
		observability.IncCascadeFailure("notification_write")
		h.logger.Error().Err(err).
			Int("message_id", msg.ID).
			Int("recipient_id", recipientID).
			Msg("notification write failed after send")
	}

	event := rabbitmq.NewEvent(rabbitmq.RouteMessageSent, requestID(c), gin.H{
		"message_id":      msg.ID,
		"conversation_id": msg.ConversationID,
		"sender_id":       msg.SenderID,
		"recipient_id":    msg.RecipientID,
	})
	if err := h.publisher.Publish(c.Request.Context(), rabbitmq.RouteMessageSent, event); err != nil {
		h.logger.Warn().Err(err).Int("message_id", msg.ID).Msg("event publish failed after send")
	}

	c.JSON(http.StatusCreated, msg)
}
