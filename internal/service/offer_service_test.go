package service

import (
	"context"
	"testing"

	"marketplace/internal/apperr"
	"marketplace/internal/models"
	"marketplace/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOfferFirstIDForPrefix(t *testing.T) {
	f := newFixture(t)
	f.customer(t, "bobsmith")

	offer, err := f.offers.CreateOffer(context.Background(), CreateOfferRequest{
		Customer: "bobsmith",
		Product:  "Laptop Pro X1",
		Qty:      3,
		Amount:   1000,
	})
	require.NoError(t, err)

	assert.Equal(t, "BO-0001", offer.ID)
	assert.Equal(t, models.OfferStatusPending, offer.Status)
	assert.Zero(t, offer.Supplied)

	events := f.publisher.Events()
	require.Len(t, events, 1)
	created, ok := events[0].(*models.OfferCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, "BO-0001", created.OfferID)
	assert.Equal(t, models.EventTypeOfferCreated, created.EventType)
}

func TestCreateOfferSequenceIsMonotonicPerPrefix(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.customer(t, "bobsmith")
	f.customer(t, "bob")
	f.customer(t, "alice")

	var ids []string
	for _, customer := range []string{"bobsmith", "bob", "alice", "bobsmith"} {
		offer, err := f.offers.CreateOffer(ctx, CreateOfferRequest{Customer: customer, Product: "P", Qty: 1, Amount: 5})
		require.NoError(t, err)
		ids = append(ids, offer.ID)
	}

	assert.Equal(t, []string{"BO-0001", "BO-0002", "AL-0001", "BO-0003"}, ids)
}

func TestCreateOfferSequenceSurvivesRestart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.customer(t, "bobsmith")

	for i := 0; i < 2; i++ {
		_, err := f.offers.CreateOffer(ctx, CreateOfferRequest{Customer: "bobsmith", Product: "P", Qty: 1, Amount: 5})
		require.NoError(t, err)
	}

	reopened, err := store.Open(ctx, f.backend)
	require.NoError(t, err)
	offers := NewOfferService(reopened, f.publisher)

	offer, err := offers.CreateOffer(ctx, CreateOfferRequest{Customer: "bobsmith", Product: "P", Qty: 1, Amount: 5})
	require.NoError(t, err)
	assert.Equal(t, "BO-0003", offer.ID)
}

func TestCreateOfferValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.customer(t, "bobsmith")

	for _, req := range []CreateOfferRequest{
		{Customer: "bobsmith", Product: "P", Qty: 0, Amount: 5},
		{Customer: "bobsmith", Product: "P", Qty: -1, Amount: 5},
		{Customer: "bobsmith", Product: "P", Qty: 1, Amount: 0},
		{Customer: "bobsmith", Product: "", Qty: 1, Amount: 5},
		{Customer: "", Product: "P", Qty: 1, Amount: 5},
	} {
		_, err := f.offers.CreateOffer(ctx, req)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation), "%+v", req)
	}

	_, err := f.offers.CreateOffer(ctx, CreateOfferRequest{Customer: "ghost", Product: "P", Qty: 1, Amount: 5})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Empty(t, f.store.Offers())
}

func TestAcceptAndSupplyUntilComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.customer(t, "bobsmith")

	offer, err := f.offers.CreateOffer(ctx, CreateOfferRequest{Customer: "bobsmith", Product: "P", Qty: 3, Amount: 1000})
	require.NoError(t, err)

	ok, err := f.offers.RecordSupply(ctx, offer.ID)
	require.NoError(t, err)
	assert.False(t, ok, "pending offers are not supplied")

	accepted, err := f.offers.Accept(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusAccepted, accepted.Status)
	assert.Len(t, f.offers.SupplyQueue(), 1)

	for i := 0; i < 3; i++ {
		ok, err := f.offers.RecordSupply(ctx, offer.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	orders := f.offers.CustomerOrders("bobsmith")
	require.Len(t, orders, 1)
	assert.Equal(t, 3, orders[0].Supplied)
	assert.Equal(t, models.OrderStatusComplete, orders[0].OrderStatus)

	ok, err = f.offers.RecordSupply(ctx, offer.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := f.offers.Offer(offer.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Supplied)
	assert.Equal(t, models.OrderStatusComplete, OrderStatus(stored))
	assert.Empty(t, f.offers.SupplyQueue())
}

func TestPartialSupplyDisplaysAccepted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.customer(t, "carol")

	offer, err := f.offers.CreateOffer(ctx, CreateOfferRequest{Customer: "carol", Product: "P", Qty: 2, Amount: 10})
	require.NoError(t, err)
	_, err = f.offers.Accept(ctx, offer.ID)
	require.NoError(t, err)
	_, err = f.offers.RecordSupply(ctx, offer.ID)
	require.NoError(t, err)

	orders := f.offers.CustomerOrders("carol")
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusAccepted, orders[0].OrderStatus)
}

func TestDecisionsAreOneShot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.customer(t, "dave")

	offer, err := f.offers.CreateOffer(ctx, CreateOfferRequest{Customer: "dave", Product: "P", Qty: 1, Amount: 10})
	require.NoError(t, err)

	_, err = f.offers.Reject(ctx, offer.ID)
	require.NoError(t, err)

	again, err := f.offers.Reject(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusRejected, again.Status)

	_, err = f.offers.Accept(ctx, offer.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	ok, err := f.offers.RecordSupply(ctx, offer.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Empty(t, f.offers.PendingOffers())
	assert.Empty(t, f.offers.CustomerOrders("dave"))
	assert.Len(t, f.offers.CustomerOffers("dave"), 1)
}

func TestUnknownOfferIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.offers.Accept(ctx, "ZZ-0001")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	_, err = f.offers.Reject(ctx, "ZZ-0001")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	_, err = f.offers.RecordSupply(ctx, "ZZ-0001")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	_, err = f.offers.Offer("ZZ-0001")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCreateOfferStorageFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.customer(t, "erin")

	f.backend.FailSaves = true
	_, err := f.offers.CreateOffer(ctx, CreateOfferRequest{Customer: "erin", Product: "P", Qty: 1, Amount: 1})
	assert.True(t, apperr.IsKind(err, apperr.KindStorage))

	f.backend.FailSaves = false
	offer, err := f.offers.CreateOffer(ctx, CreateOfferRequest{Customer: "erin", Product: "P", Qty: 1, Amount: 1})
	require.NoError(t, err)
	assert.Equal(t, "ER-0001", offer.ID)
}
