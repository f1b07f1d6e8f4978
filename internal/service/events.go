package service

import (
	"context"
	"time"

	"marketplace/internal/models"

	"github.com/google/uuid"
)

// EventPublisher publishes marketplace domain events
type EventPublisher interface {
	PublishOfferCreated(ctx context.Context, event *models.OfferCreatedEvent) error
	PublishOfferDecided(ctx context.Context, event *models.OfferDecidedEvent) error
	PublishSupplyRecorded(ctx context.Context, event *models.SupplyRecordedEvent) error
	PublishMessagePosted(ctx context.Context, event *models.MessagePostedEvent) error
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
