package handlers

import (
	"github.com/gin-gonic/gin"

	"messaging-service/internal/apperrors"
	"messaging-service/internal/middleware"
)

// blockedMessage deliberately hides which side placed the block.
const blockedMessage = "chat is blocked"

func currentUserID(c *gin.Context) int {
	return c.GetInt(middleware.ContextUserID)
}

func requestID(c *gin.Context) string {
	return c.GetString(middleware.ContextRequestID)
}

// respondError maps an application error onto the HTTP surface. Internal
// causes are logged by callers, never exposed.
func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.MessageOf(err)})
}
