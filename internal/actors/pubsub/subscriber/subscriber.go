package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/gigmates/gigmates/internal/core/model"
	"github.com/gigmates/gigmates/internal/core/ports"

	log "github.com/sirupsen/logrus"
)

// SubscriberArgs contain the mandatory arguments to build a subscriber.
type SubscriberArgs struct {
	// Subscription is a pubsub subscription
	Subscription *pubsub.Subscription

	// ConnectionEventHandler is an event handler
	ConnectionEventHandler ports.ConnectionEventHandler
}

// Subscriber is a pubsub async subscriber.
type Subscriber struct {
	subscription           *pubsub.Subscription
	connectionEventHandler ports.ConnectionEventHandler
}

// NewSubscriber creates a subscriber.
func NewSubscriber(args SubscriberArgs) *Subscriber {
	return &Subscriber{
		subscription:           args.Subscription,
		connectionEventHandler: args.ConnectionEventHandler,
	}
}

// Consume starts the subscriber. This is a blocking method and should be started in it's own go-routine.
// The way to terminate the method is to cancel the context in input.
func (s *Subscriber) Consume(ctx context.Context) error {
	if err := s.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {

		event, err := decodeMsgIntoConnectionEvent(msg)
		if err != nil {
			log.WithError(err).Error("error decoding message into connection event")
			msg.Nack()
			return
		}

		if err := s.connectionEventHandler.Handle(ctx, *event); err != nil {
			log.WithError(err).Error("error in connection event handler")
			msg.Nack()
		} else {
			msg.Ack()
		}
	}); err != nil {
		return fmt.Errorf("error receiving messages from subscription: %w", err)
	}
	return nil
}

func decodeMsgIntoConnectionEvent(msg *pubsub.Message) (*model.ConnectionEvent, error) {
	if msg == nil {
		return nil, errors.New("cannot decode nil pubsub msg")
	}
	event := new(model.ConnectionEvent)
	if err := json.Unmarshal(msg.Data, event); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}
	if event.ID == "" {
		event.ID = msg.ID
	}
	return event, nil
}
