package service

import (
	"context"
	"sync"
	"testing"

	"marketplace/internal/models"
	"marketplace/internal/store"

	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []interface{}
}

func (p *recordingPublisher) record(event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) PublishOfferCreated(ctx context.Context, event *models.OfferCreatedEvent) error {
	return p.record(event)
}

func (p *recordingPublisher) PublishOfferDecided(ctx context.Context, event *models.OfferDecidedEvent) error {
	return p.record(event)
}

func (p *recordingPublisher) PublishSupplyRecorded(ctx context.Context, event *models.SupplyRecordedEvent) error {
	return p.record(event)
}

func (p *recordingPublisher) PublishMessagePosted(ctx context.Context, event *models.MessagePostedEvent) error {
	return p.record(event)
}

func (p *recordingPublisher) Events() []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]interface{}{}, p.events...)
}

type fixture struct {
	store     *store.Store
	backend   *store.MemoryBackend
	sessions  *SessionManager
	publisher *recordingPublisher
	identity  *IdentityService
	catalog   *CatalogService
	offers    *OfferService
	chat      *ChatService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	backend := store.NewMemoryBackend()
	st, err := store.Open(context.Background(), backend)
	require.NoError(t, err)

	sessions := NewSessionManager()
	publisher := &recordingPublisher{}

	return &fixture{
		store:     st,
		backend:   backend,
		sessions:  sessions,
		publisher: publisher,
		identity:  NewIdentityService(st, sessions, "Danteetech123"),
		catalog:   NewCatalogService(st),
		offers:    NewOfferService(st, publisher),
		chat:      NewChatService(st, sessions, publisher),
	}
}

func (f *fixture) customer(t *testing.T, username string) *Session {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.identity.Register(ctx, username, "pw"))
	sess, err := f.identity.Login(ctx, username, "pw")
	require.NoError(t, err)
	return sess
}

func (f *fixture) admin(t *testing.T) *Session {
	t.Helper()
	sess, err := f.identity.AdminLogin(context.Background(), "Danteetech123")
	require.NoError(t, err)
	return sess
}
