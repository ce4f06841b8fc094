package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"messaging-service/internal/apperrors"
	"messaging-service/internal/models"
	"messaging-service/internal/rabbitmq"
	"messaging-service/internal/repositories"
)

// BlockHandler manages the block registry endpoints.
type BlockHandler struct {
	blocks    repositories.BlockRepository
	users     repositories.UserDirectory
	publisher rabbitmq.Publisher
	logger    zerolog.Logger
}

// NewBlockHandler builds a BlockHandler.
func NewBlockHandler(blocks repositories.BlockRepository, users repositories.UserDirectory, publisher rabbitmq.Publisher, logger zerolog.Logger) *BlockHandler {
	return &BlockHandler{blocks: blocks, users: users, publisher: publisher, logger: logger}
}

// ListBlocks returns the blocks issued by the caller.
func (h *BlockHandler) ListBlocks(c *gin.Context) {
	userID := currentUserID(c)

	blocks, err := h.blocks.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Int("user_id", userID).Msg("list blocks failed")
		respondError(c, err)
		return
	}
	if blocks == nil {
		blocks = []models.Block{}
	}

	c.JSON(http.StatusOK, gin.H{"blocks": blocks})
}

// BlockStatus reports both directions between the caller and another user.
func (h *BlockHandler) BlockStatus(c *gin.Context) {
	otherID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		respondError(c, apperrors.InvalidArgument("invalid user id"))
		return
	}

	status, err := h.blocks.Status(c.Request.Context(), currentUserID(c), otherID)
	if err != nil {
		h.logger.Error().Err(err).Msg("block status failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// BlockUser records a directed block. Re-blocking is a no-op success.
func (h *BlockHandler) BlockUser(c *gin.Context) {
	var req struct {
		UserID int `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidArgument("user_id is required"))
		return
	}

	userID := currentUserID(c)
	if req.UserID == userID {
		respondError(c, apperrors.InvalidArgument("cannot block yourself"))
		return
	}

	exists, err := h.users.Exists(c.Request.Context(), req.UserID)
	if err != nil {
		h.logger.Error().Err(err).Msg("user lookup failed")
		respondError(c, err)
		return
	}
	if !exists {
		respondError(c, apperrors.NotFound("user not found"))
		return
	}

	if err := h.blocks.Block(c.Request.Context(), userID, req.UserID); err != nil {
		h.logger.Error().Err(err).Msg("block failed")
		respondError(c, err)
		return
	}

	event := rabbitmq.NewEvent(rabbitmq.RouteUserBlocked, requestID(c), gin.H{
		"blocker_id": userID,
		"blocked_id": req.UserID,
	})
	if err := h.publisher.Publish(c.Request.Context(), rabbitmq.RouteUserBlocked, event); err != nil {
		h.logger.Warn().Err(err).Msg("event publish failed after block")
	}

	c.Status(http.StatusNoContent)
}

// UnblockUser removes a directed block. Unblocking an absent fact succeeds.
func (h *BlockHandler) UnblockUser(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		respondError(c, apperrors.InvalidArgument("invalid user id"))
		return
	}

	if err := h.blocks.Unblock(c.Request.Context(), currentUserID(c), targetID); err != nil {
		h.logger.Error().Err(err).Msg("unblock failed")
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
