package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"marketplace/internal/models"
	"marketplace/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventSink is where the publisher writes serialized events
type EventSink interface {
	PublishEvent(ctx context.Context, key string, event interface{}) error
}

// EventPublisher handles publishing domain events
type EventPublisher struct {
	sink EventSink
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(sink EventSink) *EventPublisher {
	return &EventPublisher{sink: sink}
}

// PublishOfferCreated publishes OfferCreated event
func (ep *EventPublisher) PublishOfferCreated(ctx context.Context, event *models.OfferCreatedEvent) error {
	return ep.sink.PublishEvent(ctx, offerKey(event.OfferID), event)
}

// PublishOfferDecided publishes OfferDecided event
func (ep *EventPublisher) PublishOfferDecided(ctx context.Context, event *models.OfferDecidedEvent) error {
	return ep.sink.PublishEvent(ctx, offerKey(event.OfferID), event)
}

// PublishSupplyRecorded publishes SupplyRecorded event
func (ep *EventPublisher) PublishSupplyRecorded(ctx context.Context, event *models.SupplyRecordedEvent) error {
	return ep.sink.PublishEvent(ctx, offerKey(event.OfferID), event)
}

// PublishMessagePosted publishes MessagePosted event
func (ep *EventPublisher) PublishMessagePosted(ctx context.Context, event *models.MessagePostedEvent) error {
	return ep.sink.PublishEvent(ctx, fmt.Sprintf("thread-%s", event.Thread), event)
}

func offerKey(id string) string {
	return fmt.Sprintf("offer-%s", id)
}

// NopPublisher drops every event; used when no brokers are configured
type NopPublisher struct{}

func (NopPublisher) PublishOfferCreated(context.Context, *models.OfferCreatedEvent) error {
	return nil
}

func (NopPublisher) PublishOfferDecided(context.Context, *models.OfferDecidedEvent) error {
	return nil
}

func (NopPublisher) PublishSupplyRecorded(context.Context, *models.SupplyRecordedEvent) error {
	return nil
}

func (NopPublisher) PublishMessagePosted(context.Context, *models.MessagePostedEvent) error {
	return nil
}

// EventHandler handles incoming events
type EventHandler struct {
	onOfferCreated   func(context.Context, *models.OfferCreatedEvent) error
	onOfferDecided   func(context.Context, *models.OfferDecidedEvent) error
	onSupplyRecorded func(context.Context, *models.SupplyRecordedEvent) error
	onMessagePosted  func(context.Context, *models.MessagePostedEvent) error
	logger           *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.ComponentLogger("event-handler")}
}

// OnOfferCreated registers a handler for OfferCreated events
func (eh *EventHandler) OnOfferCreated(handler func(context.Context, *models.OfferCreatedEvent) error) {
	eh.onOfferCreated = handler
}

// OnOfferDecided registers a handler for OfferDecided events
func (eh *EventHandler) OnOfferDecided(handler func(context.Context, *models.OfferDecidedEvent) error) {
	eh.onOfferDecided = handler
}

// OnSupplyRecorded registers a handler for SupplyRecorded events
func (eh *EventHandler) OnSupplyRecorded(handler func(context.Context, *models.SupplyRecordedEvent) error) {
	eh.onSupplyRecorded = handler
}

// OnMessagePosted registers a handler for MessagePosted events
func (eh *EventHandler) OnMessagePosted(handler func(context.Context, *models.MessagePostedEvent) error) {
	eh.onMessagePosted = handler
}

// HandleMessage routes Kafka messages to the registered handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	return eh.Dispatch(ctx, msg.Value)
}

// Dispatch decodes a serialized event and routes it by type
func (eh *EventHandler) Dispatch(ctx context.Context, payload []byte) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(payload, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("event_id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeOfferCreated:
		if eh.onOfferCreated != nil {
			var event models.OfferCreatedEvent
			if err := json.Unmarshal(payload, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OfferCreated event: %w", err)
			}
			return eh.onOfferCreated(ctx, &event)
		}

	case models.EventTypeOfferDecided:
		if eh.onOfferDecided != nil {
			var event models.OfferDecidedEvent
			if err := json.Unmarshal(payload, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OfferDecided event: %w", err)
			}
			return eh.onOfferDecided(ctx, &event)
		}

	case models.EventTypeSupplyRecorded:
		if eh.onSupplyRecorded != nil {
			var event models.SupplyRecordedEvent
			if err := json.Unmarshal(payload, &event); err != nil {
				return fmt.Errorf("failed to unmarshal SupplyRecorded event: %w", err)
			}
			return eh.onSupplyRecorded(ctx, &event)
		}

	case models.EventTypeMessagePosted:
		if eh.onMessagePosted != nil {
			var event models.MessagePostedEvent
			if err := json.Unmarshal(payload, &event); err != nil {
				return fmt.Errorf("failed to unmarshal MessagePosted event: %w", err)
			}
			return eh.onMessagePosted(ctx, &event)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
