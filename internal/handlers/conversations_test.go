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
)

type conversationMocks struct {
	conversations *mocks.ConversationRepositoryMock
	messages      *mocks.MessageRepositoryMock
	blocks        *mocks.BlockRepositoryMock
	users         *mocks.UserDirectoryMock
	notifier      *mocks.NotifierMock
	publisher     *mocks.PublisherMock
}

func newConversationHandler() (*ConversationHandler, conversationMocks) {
	m := conversationMocks{
		conversations: new(mocks.ConversationRepositoryMock),
		messages:      new(mocks.MessageRepositoryMock),
		blocks:        new(mocks.BlockRepositoryMock),
		users:         new(mocks.UserDirectoryMock),
		notifier:      new(mocks.NotifierMock),
		publisher:     new(mocks.PublisherMock),
	}
	handler := NewConversationHandler(m.conversations, m.messages, m.blocks, m.users, m.notifier, m.publisher, zerolog.Nop())
	return handler, m
}

func setupConversationRouter(handler *ConversationHandler, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	})
	r.GET("/conversations", handler.ListConversations)
	r.POST("/conversations", handler.StartConversation)
	r.GET("/conversations/unread-count", handler.UnreadCount)
	r.POST("/conversations/:conversation_id/read", handler.MarkConversationRead)
	r.GET("/conversations/:conversation_id/messages", handler.ListMessages)
	r.POST("/conversations/:conversation_id/messages", handler.SendMessage)
	return r
}

func TestListConversationsSuccess(t *testing.T) {
	handler, m := newConversationHandler()
	router := setupConversationRouter(handler, 1)

	m.conversations.On("ListForUser", mock.Anything, 1).
		Return([]models.ConversationSummary{{ConversationID: 3, OtherUserID: 2, UnreadCount: 4}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Conversations []models.ConversationSummary `json:"conversations"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Conversations, 1)
	assert.Equal(t, 4, resp.Conversations[0].UnreadCount)
	m.conversations.AssertExpectations(t)
}

func TestListConversationsRepoError(t *testing.T) {
	handler, m := newConversationHandler()
	router := setupConversationRouter(handler, 1)

	m.conversations.On("ListForUser", mock.Anything, 1).
		Return(([]models.ConversationSummary)(nil), assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	m.conversations.AssertExpectations(t)
}

func TestStartConversationSuccess(t *testing.T) {
	handler, m := newConversationHandler()
	router := setupConversationRouter(handler, 1)

	m.users.On("Exists", mock.Anything, 2).Return(true, nil).Once()
	m.blocks.On("IsBlockedBetween", mock.Anything, 1, 2).Return(false, nil).Once()
	m.conversations.On("GetOrCreate", mock.Anything, 1, 2).
		Return(models.Conversation{ID: 10, User1ID: 1, User2ID: 2}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations", bytes.NewBufferString(`{"recipient_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	m.users.AssertExpectations(t)
	m.blocks.AssertExpectations(t)
	m.conversations.AssertExpectations(t)
}

func TestStartConversationWithSelf(t *testing.T) {
	handler, _ := newConversationHandler()
	router := setupConversationRouter(handler, 1)

	req := httptest.NewRequest(http.MethodPost, "/conversations", bytes.NewBufferString(`{"recipient_id":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartConversationRecipientMissing(t *testing.T) {
	handler, m := newConversationHandler()
	router := setupConversationRouter(handler, 1)

	m.users.On("Exists", mock.Anything, 99).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations", bytes.NewBufferString(`{"recipient_id":99}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	m.users.AssertExpectations(t)
}

func TestStartConversationBlocked(t *testing.T) {
	handler, m := newConversationHandler()
	router := setupConversationRouter(handler, 1)

	m.users.On("Exists", mock.Anything, 2).Return(true, nil).Once()
	m.blocks.On("IsBlockedBetween", mock.Anything, 1, 2).Return(true, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations", bytes.NewBufferString(`{"recipient_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "chat is blocked", resp["error"])
	m.blocks.AssertExpectations(t)
}

func TestUnreadCount(t *testing.T) {
	handler, m := newConversationHandler()
	router := setupConversationRouter(handler, 1)

	m.conversations.On("TotalUnread", mock.Anything, 1).Return(7, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations/unread-count", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]int
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 7, resp["unread_count"])
	m.conversations.AssertExpectations(t)
}

func TestMarkConversationReadSuccess(t *testing.T) {
	handler, m := newConversationHandler()
	router := setupConversationRouter(handler, 1)

	m.conversations.On("GetByID", mock.Anything, 5).
		Return(models.Conversation{ID: 5, User1ID: 1, User2ID: 2}, nil).Once()
	m.blocks.On("IsBlockedBetween", mock.Anything, 1, 2).Return(false, nil).Once()
	m.conversations.On("MarkRead", mock.Anything, 5, 1).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/5/read", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	m.conversations.AssertExpectations(t)
	m.blocks.AssertExpectations(t)
}

func TestMarkConversationReadNotParticipant(t *testing.T) {
	handler, m := newConversationHandler()
	router := setupConversationRouter(handler, 9)

	m.conversations.On("GetByID", mock.Anything, 5).
		Return(models.Conversation{ID: 5, User1ID: 1, User2ID: 2}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/5/read", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	m.conversations.AssertExpectations(t)
}
