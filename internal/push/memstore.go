package push

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory SubscriptionStore with the same upsert
// semantics as the PostgreSQL store. It backs tests and local development
// without a database.
type MemoryStore struct {
	mu   sync.Mutex
	subs map[string]Subscription // keyed by endpoint
}

// NewMemoryStore creates an empty in-memory subscription store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subs: make(map[string]Subscription)}
}

func (m *MemoryStore) ListAll(_ context.Context) ([]Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs := make([]Subscription, 0, len(m.subs))
	for _, sub := range m.subs {
		subs = append(subs, sub)
	}
	return subs, nil
}

func (m *MemoryStore) Upsert(_ context.Context, sub Subscription) error {
	if !sub.Valid() {
		return ErrInvalidSubscription
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	existing, ok := m.subs[sub.Endpoint]
	if !ok {
		sub.ID = uuid.New().String()
		sub.CreatedAt = now
		sub.UpdatedAt = now
		m.subs[sub.Endpoint] = sub
		return nil
	}

	existing.P256dh = sub.P256dh
	existing.Auth = sub.Auth
	if sub.OwnerShortID != "" {
		existing.OwnerShortID = sub.OwnerShortID
	}
	existing.UpdatedAt = now
	m.subs[sub.Endpoint] = existing
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for endpoint, sub := range m.subs {
		if sub.ID == id {
			delete(m.subs, endpoint)
			return nil
		}
	}
	return nil
}
