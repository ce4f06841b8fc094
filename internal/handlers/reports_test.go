package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/middleware"
	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
)

type reportMocks struct {
	reports       *mocks.ReportRepositoryMock
	messages      *mocks.MessageRepositoryMock
	conversations *mocks.ConversationRepositoryMock
	users         *mocks.UserDirectoryMock
}

func setupReportRouter(userID int) (*gin.Engine, reportMocks) {
	gin.SetMode(gin.TestMode)
	m := reportMocks{
		reports:       new(mocks.ReportRepositoryMock),
		messages:      new(mocks.MessageRepositoryMock),
		conversations: new(mocks.ConversationRepositoryMock),
		users:         new(mocks.UserDirectoryMock),
	}
	handler := NewReportHandler(m.reports, m.messages, m.conversations, m.users, zerolog.Nop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	})
	r.POST("/reports", handler.SubmitReport)
	return r, m
}

func TestSubmitReportSuccess(t *testing.T) {
	router, m := setupReportRouter(1)

	m.users.On("Exists", mock.Anything, 2).Return(true, nil).Once()
	m.reports.On("Create", mock.Anything, mock.MatchedBy(func(r models.Report) bool {
		return r.ReporterID == 1 && r.TargetUserID == 2 && r.Reason == "spam"
	})).Return(models.Report{ID: 8, ReporterID: 1, TargetUserID: 2, Reason: "spam", Status: models.ReportStatusOpen}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/reports", bytes.NewBufferString(`{"target_user_id":2,"reason":"spam"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	m.reports.AssertExpectations(t)
}

func TestSubmitReportEmptyReason(t *testing.T) {
	router, m := setupReportRouter(1)

	req := httptest.NewRequest(http.MethodPost, "/reports", bytes.NewBufferString(`{"target_user_id":2,"reason":"   "}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	m.reports.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitReportMessageNotInvolvingTarget(t *testing.T) {
	router, m := setupReportRouter(1)

	m.users.On("Exists", mock.Anything, 2).Return(true, nil).Once()
	m.messages.On("GetByID", mock.Anything, 7).
		Return(models.Message{ID: 7, ConversationID: 3, SenderID: 1, RecipientID: 5}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/reports",
		bytes.NewBufferString(`{"target_user_id":2,"reason":"abuse","message_id":7}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	m.reports.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitReportReporterNotMessageParticipant(t *testing.T) {
	router, m := setupReportRouter(9)

	m.users.On("Exists", mock.Anything, 2).Return(true, nil).Once()
	m.messages.On("GetByID", mock.Anything, 7).
		Return(models.Message{ID: 7, ConversationID: 3, SenderID: 1, RecipientID: 2}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/reports",
		bytes.NewBufferString(`{"target_user_id":2,"reason":"abuse","message_id":7}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	m.reports.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitReportConversationValidation(t *testing.T) {
	router, m := setupReportRouter(1)

	m.users.On("Exists", mock.Anything, 2).Return(true, nil).Once()
	m.conversations.On("GetByID", mock.Anything, 3).
		Return(models.Conversation{ID: 3, User1ID: 1, User2ID: 2}, nil).Once()
	m.reports.On("Create", mock.Anything, mock.MatchedBy(func(r models.Report) bool {
		return r.ConversationID != nil && *r.ConversationID == 3
	})).Return(models.Report{ID: 9}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/reports",
		bytes.NewBufferString(`{"target_user_id":2,"reason":"harassment","conversation_id":3}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	m.reports.AssertExpectations(t)
}
