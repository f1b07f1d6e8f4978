package service

import (
	"context"

	"marketplace/internal/apperr"
	"marketplace/internal/models"
	"marketplace/internal/store"
	"marketplace/internal/util"

	"go.uber.org/zap"
)

// CreateOfferRequest represents a customer bid for a product
type CreateOfferRequest struct {
	Customer string `json:"customer" validate:"required"`
	Product  string `json:"product" validate:"required"`
	Qty      int    `json:"qty" validate:"gt=0"`
	Amount   int64  `json:"off" validate:"gt=0"`
}

// OrderView is an accepted offer together with its display status
type OrderView struct {
	models.Offer
	OrderStatus string `json:"order_status"`
}

// OfferService enforces the offer lifecycle: pending offers are accepted or
// rejected by the admin, and accepted offers are supplied one unit at a time.
type OfferService struct {
	store          *store.Store
	eventPublisher EventPublisher
	logger         *zap.Logger
}

// NewOfferService creates a new offer service
func NewOfferService(store *store.Store, eventPublisher EventPublisher) *OfferService {
	return &OfferService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.ComponentLogger("offers"),
	}
}

// CreateOffer validates the request and stores a pending offer under a fresh id
func (s *OfferService) CreateOffer(ctx context.Context, req CreateOfferRequest) (models.Offer, error) {
	ctx, span := util.StartSpan(ctx, "OfferService.CreateOffer")
	defer span.End()

	if err := validateRequest("CreateOffer", req); err != nil {
		util.OffersRejectedInputTotal.WithLabelValues("validation").Inc()
		return models.Offer{}, err
	}
	if !s.store.UserExists(req.Customer) {
		util.OffersRejectedInputTotal.WithLabelValues("unknown_customer").Inc()
		return models.Offer{}, apperr.NotFound("CreateOffer", "customer %q not found", req.Customer)
	}

	offer, err := s.store.AddOfferWithNextID(ctx, store.OfferPrefix(req.Customer), models.Offer{
		Customer: req.Customer,
		Product:  req.Product,
		Qty:      req.Qty,
		Off:      req.Amount,
		Status:   models.OfferStatusPending,
		Supplied: 0,
	})
	if err != nil {
		return models.Offer{}, err
	}

	util.OffersCreatedTotal.Inc()
	s.logger.Info("Offer created",
		zap.String("offer_id", offer.ID),
		zap.String("customer", offer.Customer),
		zap.String("product", offer.Product),
		zap.Int("qty", offer.Qty),
		zap.Int64("off", offer.Off))

	event := &models.OfferCreatedEvent{
		BaseEvent: newBaseEvent(models.EventTypeOfferCreated),
		OfferID:   offer.ID,
		Customer:  offer.Customer,
		Product:   offer.Product,
		Qty:       offer.Qty,
		Off:       offer.Off,
	}
	if err := s.eventPublisher.PublishOfferCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OfferCreated event", zap.Error(err))
	}

	return offer, nil
}

// Accept moves a pending offer to accepted
func (s *OfferService) Accept(ctx context.Context, id string) (models.Offer, error) {
	ctx, span := util.StartSpan(ctx, "OfferService.Accept")
	defer span.End()
	return s.decide(ctx, "Accept", id, models.OfferStatusAccepted)
}

// Reject moves a pending offer to rejected
func (s *OfferService) Reject(ctx context.Context, id string) (models.Offer, error) {
	ctx, span := util.StartSpan(ctx, "OfferService.Reject")
	defer span.End()
	return s.decide(ctx, "Reject", id, models.OfferStatusRejected)
}

// decide applies a one-shot decision. Repeating the decision already taken
// changes nothing; reversing it is a conflict.
func (s *OfferService) decide(ctx context.Context, op, id, status string) (models.Offer, error) {
	offer, changed, err := s.store.UpdateOffer(ctx, id, func(o *models.Offer) (bool, error) {
		switch o.Status {
		case status:
			return false, nil
		case models.OfferStatusPending:
			o.Status = status
			return true, nil
		default:
			return false, apperr.Conflict(op, "offer %s is already %s", id, o.Status)
		}
	})
	if err != nil {
		return models.Offer{}, err
	}
	if !changed {
		return offer, nil
	}

	util.OffersDecidedTotal.WithLabelValues(status).Inc()
	s.logger.Info("Offer decided",
		zap.String("offer_id", offer.ID),
		zap.String("status", status))

	event := &models.OfferDecidedEvent{
		BaseEvent: newBaseEvent(models.EventTypeOfferDecided),
		OfferID:   offer.ID,
		Customer:  offer.Customer,
		Status:    offer.Status,
	}
	if err := s.eventPublisher.PublishOfferDecided(ctx, event); err != nil {
		s.logger.Error("Failed to publish OfferDecided event", zap.Error(err))
	}

	return offer, nil
}

// RecordSupply marks one more unit of an accepted offer as supplied. It
// returns false without error when the offer is not accepted or already
// fully supplied.
func (s *OfferService) RecordSupply(ctx context.Context, id string) (bool, error) {
	ctx, span := util.StartSpan(ctx, "OfferService.RecordSupply")
	defer span.End()

	var skipReason string
	offer, changed, err := s.store.UpdateOffer(ctx, id, func(o *models.Offer) (bool, error) {
		switch {
		case o.Status != models.OfferStatusAccepted:
			skipReason = "not_accepted"
			return false, nil
		case o.Supplied >= o.Qty:
			skipReason = "fully_supplied"
			return false, nil
		}
		o.Supplied++
		return true, nil
	})
	if err != nil {
		return false, err
	}
	if !changed {
		util.SupplySkippedTotal.WithLabelValues(skipReason).Inc()
		s.logger.Debug("Supply skipped",
			zap.String("offer_id", id),
			zap.String("reason", skipReason))
		return false, nil
	}

	util.SupplyRecordedTotal.Inc()
	s.logger.Info("Supply recorded",
		zap.String("offer_id", offer.ID),
		zap.Int("supplied", offer.Supplied),
		zap.Int("qty", offer.Qty))

	event := &models.SupplyRecordedEvent{
		BaseEvent:   newBaseEvent(models.EventTypeSupplyRecorded),
		OfferID:     offer.ID,
		Customer:    offer.Customer,
		Supplied:    offer.Supplied,
		Qty:         offer.Qty,
		OrderStatus: offer.OrderStatus(),
	}
	if err := s.eventPublisher.PublishSupplyRecorded(ctx, event); err != nil {
		s.logger.Error("Failed to publish SupplyRecorded event", zap.Error(err))
	}

	return true, nil
}

// Offer returns an offer by id
func (s *OfferService) Offer(id string) (models.Offer, error) {
	offer, ok := s.store.Offer(id)
	if !ok {
		return models.Offer{}, apperr.NotFound("Offer", "offer %s not found", id)
	}
	return offer, nil
}

// OrderStatus is the read-time display status of an accepted offer
func OrderStatus(offer models.Offer) string {
	return offer.OrderStatus()
}

// CustomerOffers returns every offer a customer submitted
func (s *OfferService) CustomerOffers(customer string) []models.Offer {
	return s.filter(func(o models.Offer) bool {
		return o.Customer == customer
	})
}

// CustomerOrders returns a customer's accepted offers with their display status
func (s *OfferService) CustomerOrders(customer string) []OrderView {
	accepted := s.filter(func(o models.Offer) bool {
		return o.Customer == customer && o.Status == models.OfferStatusAccepted
	})

	orders := make([]OrderView, 0, len(accepted))
	for _, o := range accepted {
		orders = append(orders, OrderView{Offer: o, OrderStatus: OrderStatus(o)})
	}
	return orders
}

// PendingOffers returns offers awaiting an admin decision
func (s *OfferService) PendingOffers() []models.Offer {
	return s.filter(func(o models.Offer) bool {
		return o.Status == models.OfferStatusPending
	})
}

// SupplyQueue returns accepted offers that still have units to supply
func (s *OfferService) SupplyQueue() []models.Offer {
	return s.filter(func(o models.Offer) bool {
		return o.Status == models.OfferStatusAccepted && o.Supplied < o.Qty
	})
}

func (s *OfferService) filter(keep func(models.Offer) bool) []models.Offer {
	offers := s.store.Offers()
	out := make([]models.Offer, 0, len(offers))
	for _, o := range offers {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}
