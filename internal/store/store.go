package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"marketplace/internal/apperr"
	"marketplace/internal/models"
	"marketplace/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the single source of truth for marketplace state. The whole
// document lives in memory and every mutation rewrites it through the backend.
type Store struct {
	mu      sync.Mutex
	backend Backend
	doc     *models.Document
	seq     map[string]int
	logger  *zap.Logger
}

// Open loads the document, migrates legacy products and reconciles offer sequences
func Open(ctx context.Context, backend Backend) (*Store, error) {
	s := &Store{
		backend: backend,
		seq:     make(map[string]int),
		logger:  util.ComponentLogger("store"),
	}

	doc, err := s.read(ctx)
	if err != nil {
		return nil, apperr.Storage("Open", err)
	}

	if err := s.migrate(ctx, doc); err != nil {
		return nil, apperr.Storage("Open", err)
	}

	s.doc = doc
	s.reconcileOfferSequences()

	s.logger.Info("Store opened",
		zap.Int("users", len(doc.Users)),
		zap.Int("products", len(doc.Products)),
		zap.Int("offers", len(doc.Offers)))
	return s, nil
}

// Close closes the backend
func (s *Store) Close() error {
	return s.backend.Close()
}

// Load re-reads the last durably saved document and makes it current.
// Products saved without an id are given one and the result is saved back.
func (s *Store) Load(ctx context.Context) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(ctx)
	if err != nil {
		return nil, apperr.Storage("Load", err)
	}
	if err := s.migrate(ctx, doc); err != nil {
		return nil, apperr.Storage("Load", err)
	}
	s.doc = doc
	s.reconcileOfferSequences()
	return doc.Clone(), nil
}

// Save replaces the whole persisted document. Nested collections are stored
// as given; top-level collections left nil are read back allocated.
func (s *Store) Save(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := doc.Clone()
	if err := s.write(ctx, next); err != nil {
		return apperr.Storage("Save", err)
	}
	next.Normalize()
	s.doc = next
	s.reconcileOfferSequences()
	return nil
}

// Snapshot returns a copy of the current document without touching the backend
func (s *Store) Snapshot() *models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

func (s *Store) read(ctx context.Context) (*models.Document, error) {
	data, err := s.backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return models.NewDocument(), nil
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}

func (s *Store) write(ctx context.Context, doc *models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	start := time.Now()
	err = s.backend.Save(ctx, data)
	util.StoreSaveLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		util.StoreSaveFailuresTotal.Inc()
		s.logger.Error("Failed to save document", zap.Error(err))
		return err
	}
	return nil
}

// mutate applies fn to a copy of the document and persists it when fn reports
// a change. The copy only becomes current once the save has succeeded.
func (s *Store) mutate(ctx context.Context, op string, fn func(doc *models.Document) (bool, error)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()
	changed, err := fn(next)
	if err != nil || !changed {
		return changed, err
	}

	if err := s.write(ctx, next); err != nil {
		return false, apperr.Storage(op, err)
	}
	s.doc = next
	return true, nil
}

func (s *Store) view(fn func(doc *models.Document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.doc)
}

// migrate assigns ids to legacy products and persists the result if any changed
func (s *Store) migrate(ctx context.Context, doc *models.Document) error {
	migrated := assignProductIDs(doc)
	if migrated == 0 {
		return nil
	}
	if err := s.write(ctx, doc); err != nil {
		return err
	}
	s.logger.Info("Assigned ids to legacy products", zap.Int("count", migrated))
	return nil
}

func assignProductIDs(doc *models.Document) int {
	migrated := 0
	for i := range doc.Products {
		if doc.Products[i].ID == "" {
			doc.Products[i].ID = uuid.New().String()
			migrated++
		}
	}
	return migrated
}

// reconcileOfferSequences raises each prefix counter to the highest sequence
// number found among stored offer ids. Counters never move backwards.
func (s *Store) reconcileOfferSequences() {
	for _, offer := range s.doc.Offers {
		prefix, n, ok := ParseOfferID(offer.ID)
		if !ok {
			s.logger.Warn("Skipping malformed offer id", zap.String("offer_id", offer.ID))
			continue
		}
		if n > s.seq[prefix] {
			s.seq[prefix] = n
		}
	}
}

// OfferPrefix derives the id prefix from a customer username
func OfferPrefix(username string) string {
	runes := []rune(username)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}

// FormatOfferID renders prefix and sequence as PREFIX-0001
func FormatOfferID(prefix string, n int) string {
	return fmt.Sprintf("%s-%04d", prefix, n)
}

// ParseOfferID splits an offer id at its last dash
func ParseOfferID(id string) (prefix string, n int, ok bool) {
	i := strings.LastIndex(id, "-")
	if i <= 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil || n < 0 {
		return "", 0, false
	}
	return id[:i], n, true
}
