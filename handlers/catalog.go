package handlers

import (
	"context"
	"encoding/json"

	"github.com/cyverse-de/notification-view/common"
	"github.com/cyverse-de/notification-view/model"
	"github.com/streadway/amqp"
)

// CatalogRequest represents a deserialized request to add a notification to the catalog.
type CatalogRequest struct {
	Title        string           `json:"title"`
	Body         string           `json:"body"`
	Type         string           `json:"type"`
	ScheduleTime string           `json:"schedule_time"`
	Recipients   model.Recipients `json:"recipients"`
	Status       string           `json:"status"`
	CreatedBy    string           `json:"created_by"`
	UpdatedBy    *string          `json:"updated_by"`
}

// Catalog is a message handler for notifications published by administrators.
type Catalog struct {
	svc NotificationService
}

// NewCatalog returns a new catalog message handler.
func NewCatalog(svc NotificationService) *Catalog {
	return &Catalog{svc: svc}
}

// HandleMessage handles a single AMQP delivery.
func (h *Catalog) HandleMessage(ctx context.Context, delivery amqp.Delivery) error {

	// Parse the message body.
	var request CatalogRequest
	err := json.Unmarshal(delivery.Body, &request)
	if err != nil {
		return NewUnrecoverableError("unable to parse message body: %s", err.Error())
	}

	// Build the notification.
	notification := &model.Notification{
		Title:      request.Title,
		Body:       request.Body,
		Type:       model.NotificationType(request.Type),
		Recipients: request.Recipients,
		Status:     model.NotificationStatus(request.Status),
		CreatedBy:  request.CreatedBy,
		UpdatedBy:  request.UpdatedBy,
	}

	// Parse the schedule time, which is optional.
	scheduleTime, err := common.ParseTimestamp(request.ScheduleTime)
	if err != nil {
		return NewUnrecoverableError("unable to parse schedule time: %s", err.Error())
	}
	if !scheduleTime.IsZero() {
		notification.ScheduleTime = &scheduleTime
	}

	// Store the notification.
	result := h.svc.CreateNotification(ctx, notification)
	return errorFor(result.Result)
}
