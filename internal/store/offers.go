package store

import (
	"context"

	"marketplace/internal/apperr"
	"marketplace/internal/models"
)

// AddOffer appends an offer whose id is already assigned
func (s *Store) AddOffer(ctx context.Context, offer models.Offer) error {
	_, err := s.mutate(ctx, "AddOffer", func(doc *models.Document) (bool, error) {
		if indexOfOffer(doc, offer.ID) >= 0 {
			return false, apperr.Conflict("AddOffer", "offer %s already exists", offer.ID)
		}
		doc.Offers = append(doc.Offers, offer)
		return true, nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	if prefix, n, ok := ParseOfferID(offer.ID); ok && n > s.seq[prefix] {
		s.seq[prefix] = n
	}
	s.mu.Unlock()
	return nil
}

// AddOfferWithNextID assigns the next sequence number for prefix and appends
// the offer in one step. The counter only advances once the save succeeded.
func (s *Store) AddOfferWithNextID(ctx context.Context, prefix string, offer models.Offer) (models.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.seq[prefix] + 1
	offer.ID = FormatOfferID(prefix, n)

	next := s.doc.Clone()
	if indexOfOffer(next, offer.ID) >= 0 {
		return models.Offer{}, apperr.Conflict("AddOffer", "offer %s already exists", offer.ID)
	}
	next.Offers = append(next.Offers, offer)

	if err := s.write(ctx, next); err != nil {
		return models.Offer{}, apperr.Storage("AddOffer", err)
	}
	s.doc = next
	s.seq[prefix] = n
	return offer, nil
}

// PeekNextOfferID returns the id the next offer with prefix would receive
func (s *Store) PeekNextOfferID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FormatOfferID(prefix, s.seq[prefix]+1)
}

// UpdateOffer applies fn to the offer with the given id and persists it if fn
// reports a change. A missing offer yields a NotFound error.
func (s *Store) UpdateOffer(ctx context.Context, id string, fn func(o *models.Offer) (bool, error)) (models.Offer, bool, error) {
	var out models.Offer
	changed, err := s.mutate(ctx, "UpdateOffer", func(doc *models.Document) (bool, error) {
		i := indexOfOffer(doc, id)
		if i < 0 {
			return false, apperr.NotFound("UpdateOffer", "offer %s not found", id)
		}
		changed, err := fn(&doc.Offers[i])
		out = doc.Offers[i]
		return changed, err
	})
	if err != nil {
		return models.Offer{}, false, err
	}
	return out, changed, nil
}

// UpdateOfferStatus sets an offer's status; false if no offer has that id
func (s *Store) UpdateOfferStatus(ctx context.Context, id, status string) (bool, error) {
	_, _, err := s.UpdateOffer(ctx, id, func(o *models.Offer) (bool, error) {
		o.Status = status
		return true, nil
	})
	if apperr.IsKind(err, apperr.KindNotFound) {
		return false, nil
	}
	return err == nil, err
}

// SupplyProduct marks one more unit of an accepted offer as supplied.
// It returns false if the offer is missing, not accepted or fully supplied.
func (s *Store) SupplyProduct(ctx context.Context, id string) (bool, error) {
	_, changed, err := s.UpdateOffer(ctx, id, supplyOne)
	if apperr.IsKind(err, apperr.KindNotFound) {
		return false, nil
	}
	return changed, err
}

func supplyOne(o *models.Offer) (bool, error) {
	if o.Status != models.OfferStatusAccepted || o.Supplied >= o.Qty {
		return false, nil
	}
	o.Supplied++
	return true, nil
}

// Offers returns every offer in submission order
func (s *Store) Offers() []models.Offer {
	var out []models.Offer
	s.view(func(doc *models.Document) {
		out = append([]models.Offer{}, doc.Offers...)
	})
	return out
}

// Offer looks an offer up by id
func (s *Store) Offer(id string) (models.Offer, bool) {
	var (
		out   models.Offer
		found bool
	)
	s.view(func(doc *models.Document) {
		if i := indexOfOffer(doc, id); i >= 0 {
			out, found = doc.Offers[i], true
		}
	})
	return out, found
}

func indexOfOffer(doc *models.Document, id string) int {
	for i := range doc.Offers {
		if doc.Offers[i].ID == id {
			return i
		}
	}
	return -1
}
