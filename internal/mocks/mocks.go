package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"messaging-service/internal/models"
)

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) GetOrCreate(ctx context.Context, userA, userB int) (models.Conversation, error) {
	args := m.Called(ctx, userA, userB)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) GetByID(ctx context.Context, conversationID int) (models.Conversation, error) {
	args := m.Called(ctx, conversationID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.ConversationSummary, error) {
	args := m.Called(ctx, userID)
	var list []models.ConversationSummary
	if val := args.Get(0); val != nil {
		list = val.([]models.ConversationSummary)
	}
	return list, args.Error(1)
}

func (m *ConversationRepositoryMock) TotalUnread(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *ConversationRepositoryMock) RefreshPreview(ctx context.Context, conversationID int) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

func (m *ConversationRepositoryMock) MarkRead(ctx context.Context, conversationID, userID int) error {
	args := m.Called(ctx, conversationID, userID)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Create(ctx context.Context, conversationID, senderID, recipientID int, body string) (models.Message, error) {
	args := m.Called(ctx, conversationID, senderID, recipientID, body)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListForConversation(ctx context.Context, conversationID, limit int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, limit)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) GetByID(ctx context.Context, messageID int) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) SoftDelete(ctx context.Context, messageID, moderatorID int) error {
	args := m.Called(ctx, messageID, moderatorID)
	return args.Error(0)
}

func (m *MessageRepositoryMock) PurgeOlderThan(ctx context.Context, cutoff time.Time) ([]int, int, error) {
	args := m.Called(ctx, cutoff)
	var ids []int
	if val := args.Get(0); val != nil {
		ids = val.([]int)
	}
	return ids, args.Int(1), args.Error(2)
}

type BlockRepositoryMock struct {
	mock.Mock
}

func (m *BlockRepositoryMock) IsBlockedBetween(ctx context.Context, userA, userB int) (bool, error) {
	args := m.Called(ctx, userA, userB)
	return args.Bool(0), args.Error(1)
}

func (m *BlockRepositoryMock) Block(ctx context.Context, blockerID, targetID int) error {
	args := m.Called(ctx, blockerID, targetID)
	return args.Error(0)
}

func (m *BlockRepositoryMock) Unblock(ctx context.Context, blockerID, targetID int) error {
	args := m.Called(ctx, blockerID, targetID)
	return args.Error(0)
}

func (m *BlockRepositoryMock) Status(ctx context.Context, userID, otherID int) (models.BlockStatus, error) {
	args := m.Called(ctx, userID, otherID)
	var status models.BlockStatus
	if val := args.Get(0); val != nil {
		status = val.(models.BlockStatus)
	}
	return status, args.Error(1)
}

func (m *BlockRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.Block, error) {
	args := m.Called(ctx, userID)
	var blocks []models.Block
	if val := args.Get(0); val != nil {
		blocks = val.([]models.Block)
	}
	return blocks, args.Error(1)
}

type NotificationRepositoryMock struct {
	mock.Mock
}

func (m *NotificationRepositoryMock) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	args := m.Called(ctx, n)
	var created models.Notification
	if val := args.Get(0); val != nil {
		created = val.(models.Notification)
	}
	return created, args.Error(1)
}

func (m *NotificationRepositoryMock) ListForUser(ctx context.Context, userID int, unreadOnly bool, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, limit)
	var list []models.Notification
	if val := args.Get(0); val != nil {
		list = val.([]models.Notification)
	}
	return list, args.Error(1)
}

func (m *NotificationRepositoryMock) UnreadCount(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *NotificationRepositoryMock) MarkRead(ctx context.Context, notificationID, userID int) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *NotificationRepositoryMock) MarkAllRead(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *NotificationRepositoryMock) RedactForMessage(ctx context.Context, messageID int) (int, error) {
	args := m.Called(ctx, messageID)
	return args.Int(0), args.Error(1)
}

func (m *NotificationRepositoryMock) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

type ReportRepositoryMock struct {
	mock.Mock
}

func (m *ReportRepositoryMock) Create(ctx context.Context, report models.Report) (models.Report, error) {
	args := m.Called(ctx, report)
	var created models.Report
	if val := args.Get(0); val != nil {
		created = val.(models.Report)
	}
	return created, args.Error(1)
}

func (m *ReportRepositoryMock) GetByID(ctx context.Context, reportID int) (models.Report, error) {
	args := m.Called(ctx, reportID)
	var report models.Report
	if val := args.Get(0); val != nil {
		report = val.(models.Report)
	}
	return report, args.Error(1)
}

func (m *ReportRepositoryMock) List(ctx context.Context, status string) ([]models.Report, error) {
	args := m.Called(ctx, status)
	var reports []models.Report
	if val := args.Get(0); val != nil {
		reports = val.([]models.Report)
	}
	return reports, args.Error(1)
}

func (m *ReportRepositoryMock) Resolve(ctx context.Context, reportID, moderatorID int) (models.Report, error) {
	args := m.Called(ctx, reportID, moderatorID)
	var report models.Report
	if val := args.Get(0); val != nil {
		report = val.(models.Report)
	}
	return report, args.Error(1)
}

func (m *ReportRepositoryMock) PurgeResolvedOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

type UserDirectoryMock struct {
	mock.Mock
}

func (m *UserDirectoryMock) Exists(ctx context.Context, userID int) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *UserDirectoryMock) Get(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) Emit(ctx context.Context, requestID string, n models.Notification) (models.Notification, error) {
	args := m.Called(ctx, requestID, n)
	var created models.Notification
	if val := args.Get(0); val != nil {
		created = val.(models.Notification)
	}
	return created, args.Error(1)
}

func (m *NotifierMock) MessageReceived(ctx context.Context, requestID string, msg models.Message) error {
	args := m.Called(ctx, requestID, msg)
	return args.Error(0)
}
