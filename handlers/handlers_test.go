package handlers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cyverse-de/notification-view/common"
	"github.com/cyverse-de/notification-view/model"
	"github.com/cyverse-de/notification-view/service"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
)

// MockNotificationService records the calls made by the message handlers.
type MockNotificationService struct {
	MarkSeenCalled      bool
	DeleteCalled        bool
	CreateCalled        bool
	UserID              interface{}
	NotificationID      interface{}
	CreatedNotification *model.Notification
	result              service.Result
}

// NewMockNotificationService returns a mock service whose operations all return the given result.
func NewMockNotificationService(result service.Result) *MockNotificationService {
	return &MockNotificationService{result: result}
}

func (s *MockNotificationService) MarkSeen(_ context.Context, userID, notificationID interface{}) service.Result {
	s.MarkSeenCalled = true
	s.UserID = userID
	s.NotificationID = notificationID
	return s.result
}

func (s *MockNotificationService) DeleteForUser(_ context.Context, userID, notificationID interface{}) service.Result {
	s.DeleteCalled = true
	s.UserID = userID
	s.NotificationID = notificationID
	return s.result
}

func (s *MockNotificationService) CreateNotification(
	_ context.Context,
	notification *model.Notification,
) service.NotificationResult {
	s.CreateCalled = true
	s.CreatedNotification = notification
	return service.NotificationResult{Result: s.result}
}

var okResult = service.Result{Code: service.CodeOK, Message: service.MessageOK}

func delivery(t *testing.T, routingKey string, body interface{}) amqp.Delivery {
	encoded, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("unable to marshal the message body: %s", err.Error())
	}
	return amqp.Delivery{Body: encoded, RoutingKey: routingKey}
}

func TestInitMessageHandlers(t *testing.T) {
	assert := assert.New(t)

	handlerFor := InitMessageHandlers(NewMockNotificationService(okResult))
	assert.Len(handlerFor, 3)
	assert.IsType(&Interaction{}, handlerFor[SeenRoutingKey])
	assert.IsType(&Interaction{}, handlerFor[DeletedRoutingKey])
	assert.IsType(&Catalog{}, handlerFor[CreateRoutingKey])
}

func TestSeenHandler(t *testing.T) {
	assert := assert.New(t)

	svc := NewMockNotificationService(okResult)
	body := map[string]interface{}{"user": "sarahr", "notification_id": "n1"}
	err := NewSeen(svc).HandleMessage(context.Background(), delivery(t, SeenRoutingKey, body))
	assert.NoError(err)
	assert.True(svc.MarkSeenCalled, "the notification was not marked as seen")
	assert.False(svc.DeleteCalled, "the notification was deleted")
	assert.Equal("sarahr", svc.UserID)
	assert.Equal("n1", svc.NotificationID)
}

func TestDeletedHandler(t *testing.T) {
	assert := assert.New(t)

	svc := NewMockNotificationService(okResult)
	body := map[string]interface{}{"user": "sarahr", "notification_id": "n1"}
	err := NewDeleted(svc).HandleMessage(context.Background(), delivery(t, DeletedRoutingKey, body))
	assert.NoError(err)
	assert.True(svc.DeleteCalled, "the notification was not deleted")
	assert.False(svc.MarkSeenCalled, "the notification was marked as seen")
}

func TestInteractionHandlerMalformedBody(t *testing.T) {
	assert := assert.New(t)

	svc := NewMockNotificationService(okResult)
	err := NewSeen(svc).HandleMessage(context.Background(), amqp.Delivery{Body: []byte("{not json")})
	assert.IsType(UnrecoverableError{}, err)
	assert.False(svc.MarkSeenCalled)
}

func TestInteractionHandlerFailures(t *testing.T) {
	assert := assert.New(t)
	body := map[string]interface{}{"user": "", "notification_id": "n1"}

	// Invalid arguments can't be fixed by trying again.
	svc := NewMockNotificationService(service.Result{
		Code:    service.CodeInvalidArgument,
		Message: service.MessageInvalidArgument,
		Err:     common.NewInvalidArgumentError("a user ID is required"),
	})
	err := NewSeen(svc).HandleMessage(context.Background(), delivery(t, SeenRoutingKey, body))
	assert.IsType(UnrecoverableError{}, err)
	assert.Contains(err.Error(), "a user ID is required")

	// Storage faults can.
	svc = NewMockNotificationService(service.Result{
		Code:    service.CodeStorageUnavailable,
		Message: service.MessageStorageUnavailable,
		Err:     common.NewStorageUnavailableError(context.DeadlineExceeded, "timed out"),
	})
	err = NewDeleted(svc).HandleMessage(context.Background(), delivery(t, DeletedRoutingKey, body))
	assert.IsType(RecoverableError{}, err)
}

func TestCatalogHandler(t *testing.T) {
	assert := assert.New(t)

	svc := NewMockNotificationService(okResult)
	body := map[string]interface{}{
		"title":         "Scheduled maintenance",
		"body":          "The DE will be unavailable tonight.",
		"type":          "warning",
		"schedule_time": "1594336370706",
		"recipients":    "all",
		"created_by":    "ipcdev",
	}
	err := NewCatalog(svc).HandleMessage(context.Background(), delivery(t, CreateRoutingKey, body))
	assert.NoError(err)
	assert.True(svc.CreateCalled, "no notification was created")

	created := svc.CreatedNotification
	if created == nil {
		t.Fatalf("no notification was passed to the service")
	}
	assert.Equal("Scheduled maintenance", created.Title)
	assert.Equal(model.NotificationTypeWarning, created.Type)
	assert.True(created.Recipients.IsWildcard())
	assert.Equal("ipcdev", created.CreatedBy)
	if assert.NotNil(created.ScheduleTime) {
		assert.Equal(time.UnixMilli(1594336370706).UTC(), *created.ScheduleTime)
	}
}

func TestCatalogHandlerExplicitRecipients(t *testing.T) {
	assert := assert.New(t)

	svc := NewMockNotificationService(okResult)
	body := map[string]interface{}{
		"title":      "Your analysis finished",
		"recipients": []string{"sarahr", "ipcdev"},
		"created_by": "ipcdev",
	}
	err := NewCatalog(svc).HandleMessage(context.Background(), delivery(t, CreateRoutingKey, body))
	assert.NoError(err)
	if assert.NotNil(svc.CreatedNotification) {
		assert.Equal([]string{"sarahr", "ipcdev"}, svc.CreatedNotification.Recipients.IDs())
		assert.Nil(svc.CreatedNotification.ScheduleTime)
	}
}

func TestCatalogHandlerInvalidMessages(t *testing.T) {
	assert := assert.New(t)

	svc := NewMockNotificationService(okResult)
	handler := NewCatalog(svc)

	// The recipients must be either the wildcard or a list.
	body := map[string]interface{}{"title": "t", "recipients": "everyone", "created_by": "ipcdev"}
	err := handler.HandleMessage(context.Background(), delivery(t, CreateRoutingKey, body))
	assert.IsType(UnrecoverableError{}, err)

	// The schedule time must be parseable.
	body = map[string]interface{}{"title": "t", "schedule_time": "tomorrow", "created_by": "ipcdev"}
	err = handler.HandleMessage(context.Background(), delivery(t, CreateRoutingKey, body))
	assert.IsType(UnrecoverableError{}, err)

	assert.False(svc.CreateCalled, "a notification was created from an invalid message")
}
