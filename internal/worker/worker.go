package worker

import (
	"context"
	"fmt"

	"marketplace/internal/broker"
	"marketplace/internal/models"
	"marketplace/internal/util"

	"go.uber.org/zap"
)

// Notification is an out-of-app notice for one recipient
type Notification struct {
	Recipient string
	Kind      string
	Text      string
}

// Notifier delivers notifications
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the log
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier backed by the component logger
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: util.ComponentLogger("notifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, notification Notification) error {
	n.logger.Info("Notification",
		zap.String("recipient", notification.Recipient),
		zap.String("kind", notification.Kind),
		zap.String("text", notification.Text))
	return nil
}

// NotificationWorker turns marketplace events into notifications
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	notifier     Notifier
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, notifier Notifier) *NotificationWorker {
	w := &NotificationWorker{
		consumer: consumer,
		notifier: notifier,
		logger:   util.ComponentLogger("notification-worker"),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOfferCreated(w.handleOfferCreated)
	eventHandler.OnOfferDecided(w.handleOfferDecided)
	eventHandler.OnSupplyRecorded(w.handleSupplyRecorded)
	eventHandler.OnMessagePosted(w.handleMessagePosted)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleOfferCreated(ctx context.Context, e *models.OfferCreatedEvent) error {
	return w.deliver(ctx, e.EventType, Notification{
		Recipient: models.AdminKey,
		Kind:      "info",
		Text:      fmt.Sprintf("New offer %s from %s: %d x %s at %d", e.OfferID, e.Customer, e.Qty, e.Product, e.Off),
	})
}

func (w *NotificationWorker) handleOfferDecided(ctx context.Context, e *models.OfferDecidedEvent) error {
	return w.deliver(ctx, e.EventType, Notification{
		Recipient: e.Customer,
		Kind:      "success",
		Text:      fmt.Sprintf("Offer %s %s", e.OfferID, e.Status),
	})
}

func (w *NotificationWorker) handleSupplyRecorded(ctx context.Context, e *models.SupplyRecordedEvent) error {
	return w.deliver(ctx, e.EventType, Notification{
		Recipient: e.Customer,
		Kind:      "success",
		Text:      fmt.Sprintf("Order %s: %d of %d supplied (%s)", e.OfferID, e.Supplied, e.Qty, e.OrderStatus),
	})
}

func (w *NotificationWorker) handleMessagePosted(ctx context.Context, e *models.MessagePostedEvent) error {
	n := Notification{Kind: "info"}
	if e.Sender == models.SenderCustomer {
		n.Recipient = models.AdminKey
		n.Text = fmt.Sprintf("New message from %s", e.Thread)
	} else {
		n.Recipient = e.Thread
		n.Text = "New message from Admin"
	}
	return w.deliver(ctx, e.EventType, n)
}

func (w *NotificationWorker) deliver(ctx context.Context, eventType string, n Notification) error {
	if err := w.notifier.Notify(ctx, n); err != nil {
		return fmt.Errorf("notify %s: %w", n.Recipient, err)
	}
	util.NotificationsDeliveredTotal.WithLabelValues(eventType).Inc()
	return nil
}
