package handlerset

import (
	"context"

	"github.com/cyverse-de/messaging/v9"
	"github.com/cyverse-de/notification-view/common"
	"github.com/cyverse-de/notification-view/handlers"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// AMQPSettings represents the settings that we require in order to connect to the AMQP exchange.
type AMQPSettings struct {
	URI           string
	ExchangeName  string
	ExchangeType  string
	QueueName     string
	PrefetchCount int
}

// HandlerSet represents a set of AMQP message handlers.
type HandlerSet struct {
	amqpClient   *messaging.Client
	amqpSettings *AMQPSettings
	handlerFor   map[string]handlers.MessageHandler
}

// New creates a new handler set.
func New(amqpSettings *AMQPSettings, handlerFor map[string]handlers.MessageHandler) (*HandlerSet, error) {
	wrapMsg := "unable to create the message handler set"

	// Create the AMQP client.
	amqpClient, err := messaging.NewClient(amqpSettings.URI, false)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	// Build and return the handler set.
	handlerSet := HandlerSet{
		amqpClient:   amqpClient,
		amqpSettings: amqpSettings,
		handlerFor:   handlerFor,
	}
	return &handlerSet, nil
}

// Listen registers a consumer for every routing key in the handler set and processes incoming messages. It does
// not return.
func (hs *HandlerSet) Listen() {
	settings := hs.amqpSettings
	for routingKey := range hs.handlerFor {
		common.Log.WithField("routing_key", routingKey).Info("adding a consumer")
		hs.amqpClient.AddConsumer(
			settings.ExchangeName,
			settings.ExchangeType,
			settings.QueueName,
			routingKey,
			hs.HandleDelivery,
			settings.PrefetchCount,
		)
	}
	hs.amqpClient.Listen()
}

// HandleDelivery passes a delivery to the handler for its routing key, then acknowledges it. Deliveries that fail
// with a recoverable error are returned to the queue; all other failures cause the delivery to be discarded.
func (hs *HandlerSet) HandleDelivery(ctx context.Context, delivery amqp.Delivery) {
	log := common.Log.WithFields(logrus.Fields{
		"routing_key":  delivery.RoutingKey,
		"delivery_tag": delivery.DeliveryTag,
	})

	// Look up the message handler.
	handler, ok := hs.handlerFor[delivery.RoutingKey]
	if !ok {
		log.Error("no message handler found for routing key")
		if err := delivery.Reject(false); err != nil {
			log.WithError(err).Error("unable to reject the delivery")
		}
		return
	}

	// Handle the message.
	err := handler.HandleMessage(ctx, delivery)
	switch {
	case err == nil:
		if err = delivery.Ack(false); err != nil {
			log.WithError(err).Error("unable to acknowledge the delivery")
		}
	case handlers.IsRecoverable(err):
		log.WithError(err).Warn("message handling failed; requeuing the delivery")
		if err = delivery.Reject(true); err != nil {
			log.WithError(err).Error("unable to requeue the delivery")
		}
	default:
		log.WithError(err).Error("message handling failed; discarding the delivery")
		if err = delivery.Reject(false); err != nil {
			log.WithError(err).Error("unable to reject the delivery")
		}
	}
}

// Close closes a message handler set.
func (hs *HandlerSet) Close() {
	hs.amqpClient.Close()
}
