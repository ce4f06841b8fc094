package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/middleware"
	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
	"messaging-service/internal/rabbitmq"
)

func setupBlockRouter(userID int) (*gin.Engine, *mocks.BlockRepositoryMock, *mocks.UserDirectoryMock, *mocks.PublisherMock) {
	gin.SetMode(gin.TestMode)
	blocks := new(mocks.BlockRepositoryMock)
	users := new(mocks.UserDirectoryMock)
	publisher := new(mocks.PublisherMock)
	handler := NewBlockHandler(blocks, users, publisher, zerolog.Nop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	})
	r.GET("/blocks", handler.ListBlocks)
	r.GET("/blocks/status/:user_id", handler.BlockStatus)
	r.POST("/blocks", handler.BlockUser)
	r.DELETE("/blocks/:user_id", handler.UnblockUser)
	return r, blocks, users, publisher
}

func TestBlockUserSuccess(t *testing.T) {
	router, blocks, users, publisher := setupBlockRouter(1)

	users.On("Exists", mock.Anything, 2).Return(true, nil).Once()
	blocks.On("Block", mock.Anything, 1, 2).Return(nil).Once()
	publisher.On("Publish", mock.Anything, rabbitmq.RouteUserBlocked, mock.AnythingOfType("rabbitmq.Event")).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/blocks", bytes.NewBufferString(`{"user_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	blocks.AssertExpectations(t)
	users.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestBlockSelf(t *testing.T) {
	router, blocks, _, _ := setupBlockRouter(1)

	req := httptest.NewRequest(http.MethodPost, "/blocks", bytes.NewBufferString(`{"user_id":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	blocks.AssertNotCalled(t, "Block", mock.Anything, mock.Anything, mock.Anything)
}

func TestBlockMissingTarget(t *testing.T) {
	router, blocks, users, _ := setupBlockRouter(1)

	users.On("Exists", mock.Anything, 99).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/blocks", bytes.NewBufferString(`{"user_id":99}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	blocks.AssertNotCalled(t, "Block", mock.Anything, mock.Anything, mock.Anything)
	users.AssertExpectations(t)
}

func TestUnblockIsIdempotent(t *testing.T) {
	router, blocks, _, _ := setupBlockRouter(1)

	blocks.On("Unblock", mock.Anything, 1, 2).Return(nil).Twice()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodDelete, "/blocks/2", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
	blocks.AssertExpectations(t)
}

func TestBlockStatusBothDirections(t *testing.T) {
	router, blocks, _, _ := setupBlockRouter(1)

	blocks.On("Status", mock.Anything, 1, 2).
		Return(models.BlockStatus{Blocked: true, BlockedBy: true}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/blocks/status/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var status models.BlockStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.True(t, status.Blocked)
	assert.True(t, status.BlockedBy)
	blocks.AssertExpectations(t)
}

func TestListBlocks(t *testing.T) {
	router, blocks, _, _ := setupBlockRouter(1)

	blocks.On("ListForUser", mock.Anything, 1).
		Return([]models.Block{{BlockerID: 1, BlockedID: 2}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/blocks", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	blocks.AssertExpectations(t)
}
