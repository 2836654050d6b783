package handlerset

import (
	"context"
	"testing"

	"github.com/cyverse-de/notification-view/handlers"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
)

// MockAcknowledger records how a delivery was acknowledged.
type MockAcknowledger struct {
	AckCalled    bool
	RejectCalled bool
	Requeued     bool
}

func (a *MockAcknowledger) Ack(tag uint64, multiple bool) error {
	a.AckCalled = true
	return nil
}

func (a *MockAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.RejectCalled = true
	a.Requeued = requeue
	return nil
}

func (a *MockAcknowledger) Reject(tag uint64, requeue bool) error {
	a.RejectCalled = true
	a.Requeued = requeue
	return nil
}

// MockHandler returns a fixed error and records whether it was called.
type MockHandler struct {
	Called bool
	err    error
}

func (h *MockHandler) HandleMessage(_ context.Context, _ amqp.Delivery) error {
	h.Called = true
	return h.err
}

func newTestHandlerSet(handlerFor map[string]handlers.MessageHandler) *HandlerSet {
	return &HandlerSet{amqpSettings: &AMQPSettings{}, handlerFor: handlerFor}
}

func deliver(hs *HandlerSet, routingKey string) *MockAcknowledger {
	acknowledger := &MockAcknowledger{}
	hs.HandleDelivery(context.Background(), amqp.Delivery{
		Acknowledger: acknowledger,
		RoutingKey:   routingKey,
		DeliveryTag:  1,
	})
	return acknowledger
}

func TestHandleDeliverySuccess(t *testing.T) {
	assert := assert.New(t)

	handler := &MockHandler{}
	ack := deliver(newTestHandlerSet(map[string]handlers.MessageHandler{handlers.SeenRoutingKey: handler}),
		handlers.SeenRoutingKey)
	assert.True(handler.Called, "the message handler was not called")
	assert.True(ack.AckCalled, "the delivery was not acknowledged")
	assert.False(ack.RejectCalled, "the delivery was rejected")
}

func TestHandleDeliveryRecoverable(t *testing.T) {
	assert := assert.New(t)

	handler := &MockHandler{err: handlers.NewRecoverableError("the database is down")}
	ack := deliver(newTestHandlerSet(map[string]handlers.MessageHandler{handlers.DeletedRoutingKey: handler}),
		handlers.DeletedRoutingKey)
	assert.False(ack.AckCalled, "the delivery was acknowledged")
	assert.True(ack.RejectCalled, "the delivery was not rejected")
	assert.True(ack.Requeued, "the delivery was not requeued")
}

func TestHandleDeliveryUnrecoverable(t *testing.T) {
	assert := assert.New(t)

	handler := &MockHandler{err: handlers.NewUnrecoverableError("the message is garbage")}
	ack := deliver(newTestHandlerSet(map[string]handlers.MessageHandler{handlers.CreateRoutingKey: handler}),
		handlers.CreateRoutingKey)
	assert.True(ack.RejectCalled, "the delivery was not rejected")
	assert.False(ack.Requeued, "the delivery was requeued")
}

func TestHandleDeliveryUnknownRoutingKey(t *testing.T) {
	assert := assert.New(t)

	handler := &MockHandler{}
	ack := deliver(newTestHandlerSet(map[string]handlers.MessageHandler{handlers.SeenRoutingKey: handler}),
		"events.notification.archived")
	assert.False(handler.Called, "a message handler was called for an unknown routing key")
	assert.True(ack.RejectCalled, "the delivery was not rejected")
	assert.False(ack.Requeued, "the delivery was requeued")
}
