package handlers

import (
	"context"

	"github.com/cyverse-de/notification-view/model"
	"github.com/cyverse-de/notification-view/service"
	"github.com/streadway/amqp"
)

// Routing keys for the messages handled by this service.
const (
	SeenRoutingKey    = "events.notification.seen"
	DeletedRoutingKey = "events.notification.deleted"
	CreateRoutingKey  = "events.notification.create"
)

// MessageHandler describes the interface used to handle AMQP messages.
type MessageHandler interface {
	HandleMessage(ctx context.Context, delivery amqp.Delivery) error
}

// NotificationService describes the service operations that message handlers call.
type NotificationService interface {
	MarkSeen(ctx context.Context, userID, notificationID interface{}) service.Result
	DeleteForUser(ctx context.Context, userID, notificationID interface{}) service.Result
	CreateNotification(ctx context.Context, notification *model.Notification) service.NotificationResult
}

// InitMessageHandlers returns a map from routing key to message handler.
func InitMessageHandlers(svc NotificationService) map[string]MessageHandler {
	return map[string]MessageHandler{
		SeenRoutingKey:    NewSeen(svc),
		DeletedRoutingKey: NewDeleted(svc),
		CreateRoutingKey:  NewCatalog(svc),
	}
}

// errorFor converts a failed service result to an error that tells the handler set whether the message can be
// processed again later.
func errorFor(result service.Result) error {
	switch result.Code {
	case service.CodeOK:
		return nil
	case service.CodeStorageUnavailable:
		return NewRecoverableError("%s: %s", result.Message, errorText(result.Err))
	default:
		return NewUnrecoverableError("%s: %s", result.Message, errorText(result.Err))
	}
}

func errorText(err error) string {
	if err == nil {
		return "no cause given"
	}
	return err.Error()
}
