package notify

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
)

func TestMessageReceivedBuildsNotification(t *testing.T) {
	notifications := new(mocks.NotificationRepositoryMock)
	publisher := new(mocks.PublisherMock)
	dispatcher := NewDispatcher(notifications, publisher, zerolog.Nop())

	msg := models.Message{ID: 42, ConversationID: 5, SenderID: 1, RecipientID: 2, Body: "hello there"}

	notifications.On("Create", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.UserID == 2 &&
			n.Type == models.NotificationKindMessage &&
			n.Body == "hello there" &&
			n.Link == "/conversations/5" &&
			n.Payload.MessageID == 42 &&
			n.Payload.SenderID == 1 &&
			n.Payload.ConversationID == 5
	})).Return(models.Notification{ID: 9, UserID: 2, Type: models.NotificationKindMessage}, nil).Once()
	publisher.On("Publish", mock.Anything, "notification.message", mock.AnythingOfType("rabbitmq.Event")).Return(nil).Once()

	err := dispatcher.MessageReceived(context.Background(), "req-1", msg)

	require.NoError(t, err)
	notifications.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestEmitSucceedsWhenPublishFails(t *testing.T) {
	notifications := new(mocks.NotificationRepositoryMock)
	publisher := new(mocks.PublisherMock)
	dispatcher := NewDispatcher(notifications, publisher, zerolog.Nop())

	n := models.Notification{UserID: 2, Type: models.NotificationKindMessage, Title: "New message"}
	notifications.On("Create", mock.Anything, n).
		Return(models.Notification{ID: 9, UserID: 2, Type: models.NotificationKindMessage}, nil).Once()
	publisher.On("Publish", mock.Anything, "notification.message", mock.AnythingOfType("rabbitmq.Event")).
		Return(assert.AnError).Once()

	created, err := dispatcher.Emit(context.Background(), "req-1", n)

	require.NoError(t, err)
	assert.Equal(t, 9, created.ID)
}

func TestEmitFailsWhenStoreFails(t *testing.T) {
	notifications := new(mocks.NotificationRepositoryMock)
	publisher := new(mocks.PublisherMock)
	dispatcher := NewDispatcher(notifications, publisher, zerolog.Nop())

	notifications.On("Create", mock.Anything, mock.Anything).
		Return(models.Notification{}, assert.AnError).Once()

	_, err := dispatcher.Emit(context.Background(), "req-1", models.Notification{UserID: 2})

	require.Error(t, err)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}
