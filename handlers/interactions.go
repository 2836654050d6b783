package handlers

import (
	"context"
	"encoding/json"

	"github.com/cyverse-de/notification-view/model"
	"github.com/streadway/amqp"
)

// InteractionRequest represents a deserialized request to record a user's action against a notification.
type InteractionRequest struct {
	User           string `json:"user"`
	NotificationID string `json:"notification_id"`
}

// Interaction is a message handler that records a single kind of user action.
type Interaction struct {
	svc    NotificationService
	action model.Action
}

// NewSeen returns a handler that records notifications being seen.
func NewSeen(svc NotificationService) *Interaction {
	return &Interaction{svc: svc, action: model.ActionSeen}
}

// NewDeleted returns a handler that records notifications being deleted.
func NewDeleted(svc NotificationService) *Interaction {
	return &Interaction{svc: svc, action: model.ActionDeleted}
}

// HandleMessage handles a single AMQP delivery.
func (h *Interaction) HandleMessage(ctx context.Context, delivery amqp.Delivery) error {

	// Parse the message body.
	var request InteractionRequest
	err := json.Unmarshal(delivery.Body, &request)
	if err != nil {
		return NewUnrecoverableError("unable to parse message body: %s", err.Error())
	}

	// Record the action.
	if h.action == model.ActionDeleted {
		return errorFor(h.svc.DeleteForUser(ctx, request.User, request.NotificationID))
	}
	return errorFor(h.svc.MarkSeen(ctx, request.User, request.NotificationID))
}
