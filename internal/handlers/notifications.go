package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"messaging-service/internal/apperrors"
	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
)

// NotificationHandler manages the per-user inbox endpoints.
type NotificationHandler struct {
	notifications repositories.NotificationRepository
	logger        zerolog.Logger
}

// NewNotificationHandler builds a NotificationHandler.
func NewNotificationHandler(notifications repositories.NotificationRepository, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, logger: logger}
}

// ListNotifications returns the inbox newest-first plus the unread count.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID := currentUserID(c)
	unreadOnly := c.Query("unreadOnly") == "true"
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	notifications, err := h.notifications.ListForUser(c.Request.Context(), userID, unreadOnly, limit)
	if err != nil {
		h.logger.Error().Err(err).Int("user_id", userID).Msg("list notifications failed")
		respondError(c, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	unread, err := h.notifications.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Int("user_id", userID).Msg("unread count failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkAllRead marks the caller's whole inbox read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := currentUserID(c)

	if err := h.notifications.MarkAllRead(c.Request.Context(), userID); err != nil {
		h.logger.Error().Err(err).Int("user_id", userID).Msg("mark all read failed")
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkOneRead marks a single notification read; already-read or absent
// notifications are a success no-op.
func (h *NotificationHandler) MarkOneRead(c *gin.Context) {
	notificationID, err := strconv.Atoi(c.Param("notification_id"))
	if err != nil {
		respondError(c, apperrors.InvalidArgument("invalid notification id"))
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), notificationID, currentUserID(c)); err != nil {
		h.logger.Error().Err(err).Int("notification_id", notificationID).Msg("mark read failed")
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
