package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"messaging-service/internal/models"
	"messaging-service/internal/observability"
	"messaging-service/internal/rabbitmq"
	"messaging-service/internal/repositories"
)

// Notifier fans domain events out into per-user inboxes.
type Notifier interface {
	Emit(ctx context.Context, requestID string, n models.Notification) (models.Notification, error)
	MessageReceived(ctx context.Context, requestID string, msg models.Message) error
}

// Dispatcher persists notifications and mirrors them onto the event bus.
// Persistence is the only delivery guarantee; the bus is best-effort.
type Dispatcher struct {
	notifications repositories.NotificationRepository
	publisher     rabbitmq.Publisher
	logger        zerolog.Logger
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(notifications repositories.NotificationRepository, publisher rabbitmq.Publisher, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{notifications: notifications, publisher: publisher, logger: logger}
}

// Emit appends a notification to the owner's inbox. A failed bus publish is
// logged and counted but never fails the emit.
func (d *Dispatcher) Emit(ctx context.Context, requestID string, n models.Notification) (models.Notification, error) {
	created, err := d.notifications.Create(ctx, n)
	if err != nil {
		return models.Notification{}, err
	}
	observability.IncNotificationEmitted(string(created.Type))

	event := rabbitmq.NewEvent("notification.emitted", requestID, created)
	if err := d.publisher.Publish(ctx, "notification."+string(created.Type), event); err != nil {
		d.logger.Warn().Err(err).
			Int("notification_id", created.ID).
			Int("user_id", created.UserID).
			Msg("event publish failed after notification write")
	}
	return created, nil
}

// MessageReceived writes the recipient's new-message notification.
func (d *Dispatcher) MessageReceived(ctx context.Context, requestID string, msg models.Message) error {
	_, err := d.Emit(ctx, requestID, models.Notification{
		UserID:  msg.RecipientID,
		Type:    models.NotificationKindMessage,
		Title:   "New message",
		Body:    models.TruncatePreview(msg.Body),
		Link:    fmt.Sprintf("/conversations/%d", msg.ConversationID),
		Payload: models.MessagePayload(msg.ConversationID, msg.SenderID, msg.ID),
	})
	return err
}
