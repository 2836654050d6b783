// Package service exposes the notification operations used by the HTTP layer and the message handlers.
package service

import (
	"context"

	"github.com/cyverse-de/notification-view/common"
	"github.com/cyverse-de/notification-view/model"
	"github.com/sirupsen/logrus"
)

// EventAppender records user actions against notifications.
type EventAppender interface {
	Append(ctx context.Context, userID, notificationID interface{}, action model.Action) (*model.EventLogEntry, error)
}

// Catalog stores notification definitions.
type Catalog interface {
	Create(ctx context.Context, notification *model.Notification) error
	FindByID(ctx context.Context, id interface{}) (*model.Notification, error)
}

// Viewer derives a user's notification view.
type Viewer interface {
	View(ctx context.Context, userID interface{}) ([]model.ViewItem, error)
}

// NotificationService orchestrates the event log, the notification catalog and the view reconciler. It performs
// no authorization; callers supply an authenticated user ID.
type NotificationService struct {
	events  EventAppender
	catalog Catalog
	viewer  Viewer
}

// New returns a notification service built from its collaborators.
func New(events EventAppender, catalog Catalog, viewer Viewer) *NotificationService {
	return &NotificationService{events: events, catalog: catalog, viewer: viewer}
}

// MarkSeen records that a user has seen a notification. The result is only an acknowledgement; callers must
// request the view again to observe the change.
func (s *NotificationService) MarkSeen(ctx context.Context, userID, notificationID interface{}) Result {
	return s.record(ctx, userID, notificationID, model.ActionSeen, MessageSeen)
}

// DeleteForUser records that a user has deleted a notification.
func (s *NotificationService) DeleteForUser(ctx context.Context, userID, notificationID interface{}) Result {
	return s.record(ctx, userID, notificationID, model.ActionDeleted, MessageDeleted)
}

func (s *NotificationService) record(
	ctx context.Context,
	userID, notificationID interface{},
	action model.Action,
	message string,
) Result {
	log := common.Log.WithFields(logrus.Fields{
		"user":         userID,
		"notification": notificationID,
		"action":       action,
	})

	if _, err := s.events.Append(ctx, userID, notificationID, action); err != nil {
		log.WithError(err).Error("unable to record the notification event")
		return failure(err)
	}

	log.Debug("recorded notification event")
	return success(message)
}

// GetView returns the notifications currently visible to a user. An empty view is a success.
func (s *NotificationService) GetView(ctx context.Context, userID interface{}) ViewResult {
	items, err := s.viewer.View(ctx, userID)
	if err != nil {
		common.Log.WithField("user", userID).WithError(err).Error("unable to get the notification view")
		return ViewResult{Result: failure(err)}
	}
	if items == nil {
		items = []model.ViewItem{}
	}
	return ViewResult{Result: success(MessageOK), Data: items}
}

// CreateNotification adds a notification to the catalog.
func (s *NotificationService) CreateNotification(ctx context.Context, notification *model.Notification) NotificationResult {
	if notification == nil {
		return NotificationResult{Result: failure(common.NewInvalidArgumentError("a notification is required"))}
	}
	if err := s.catalog.Create(ctx, notification); err != nil {
		common.Log.WithField("title", notification.Title).WithError(err).Error("unable to create the notification")
		return NotificationResult{Result: failure(err)}
	}

	common.Log.WithFields(logrus.Fields{
		"notification": notification.ID,
		"created_by":   notification.CreatedBy,
	}).Info("created notification")
	return NotificationResult{Result: success(MessageCreated), Data: notification}
}

// GetNotification looks up a single notification.
func (s *NotificationService) GetNotification(ctx context.Context, id interface{}) NotificationResult {
	notification, err := s.catalog.FindByID(ctx, id)
	if err != nil {
		if !common.IsNotFound(err) {
			common.Log.WithField("notification", id).WithError(err).Error("unable to look up the notification")
		}
		return NotificationResult{Result: failure(err)}
	}
	return NotificationResult{Result: success(MessageOK), Data: notification}
}
