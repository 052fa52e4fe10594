package push

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"go.uber.org/zap"
)

var testConfig = Config{
	Subject:         "mailto:board@example.com",
	VAPIDPublicKey:  "test-public-key",
	VAPIDPrivateKey: "test-private-key",
	TTL:             60,
}

// fakeSender records every attempt and answers per-endpoint.
type fakeSender struct {
	mu sync.Mutex
	// respond decides the outcome for a given subscription.
	respond func(sub Subscription) (int, error)
	calls   int
}

func (f *fakeSender) Send(_ context.Context, sub Subscription, _ []byte) (int, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.respond == nil {
		return http.StatusCreated, nil
	}
	return f.respond(sub)
}

func (f *fakeSender) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func seedSubscriptions(t *testing.T, store *MemoryStore, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := store.Upsert(context.Background(), Subscription{
			Endpoint: fmt.Sprintf("https://push.example.com/sub-%d", i),
			P256dh:   "p256dh-key",
			Auth:     "auth-secret",
		})
		if err != nil {
			t.Fatalf("failed to seed subscription %d: %v", i, err)
		}
	}
}

func TestNotifyAllSettlesEveryAttempt(t *testing.T) {
	store := NewMemoryStore()
	seedSubscriptions(t, store, 3)

	// One of the three attempts fails transiently; the other two succeed.
	sender := &fakeSender{respond: func(sub Subscription) (int, error) {
		if sub.Endpoint == "https://push.example.com/sub-1" {
			return http.StatusTooManyRequests, errors.New("rate limited")
		}
		return http.StatusCreated, nil
	}}

	n := NewNotifier(store, sender, testConfig, zap.NewNop().Sugar())
	res, err := n.NotifyAll(context.Background(), Payload{Title: "t", Message: "m", URL: "/topics"})
	if err != nil {
		t.Fatalf("NotifyAll returned error: %v", err)
	}

	if res.Delivered != 2 || res.Failed != 1 || res.Total != 3 {
		t.Errorf("result = %+v, want delivered=2 failed=1 total=3", res)
	}
	if sender.callCount() != 3 {
		t.Errorf("sender called %d times, want 3", sender.callCount())
	}

	// The transiently failing subscription must survive.
	subs, _ := store.ListAll(context.Background())
	if len(subs) != 3 {
		t.Errorf("store has %d subscriptions after transient failure, want 3", len(subs))
	}
}

func TestNotifyAllRemovesGoneSubscriptions(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantStored int
	}{
		{name: "410 gone is pruned", status: http.StatusGone, wantStored: 1},
		{name: "404 not found is pruned", status: http.StatusNotFound, wantStored: 1},
		{name: "500 is kept", status: http.StatusInternalServerError, wantStored: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			seedSubscriptions(t, store, 2)

			sender := &fakeSender{respond: func(sub Subscription) (int, error) {
				if sub.Endpoint == "https://push.example.com/sub-0" {
					return tt.status, fmt.Errorf("push service returned status %d", tt.status)
				}
				return http.StatusCreated, nil
			}}

			n := NewNotifier(store, sender, testConfig, zap.NewNop().Sugar())
			res, err := n.NotifyAll(context.Background(), Payload{Title: "t", Message: "m", URL: "/topics"})
			if err != nil {
				t.Fatalf("NotifyAll returned error: %v", err)
			}

			if res.Delivered != 1 || res.Failed != 1 || res.Total != 2 {
				t.Errorf("result = %+v, want delivered=1 failed=1 total=2", res)
			}

			subs, _ := store.ListAll(context.Background())
			if len(subs) != tt.wantStored {
				t.Errorf("store has %d subscriptions, want %d", len(subs), tt.wantStored)
			}
			for _, sub := range subs {
				if tt.wantStored == 1 && sub.Endpoint == "https://push.example.com/sub-0" {
					t.Errorf("dead subscription was not removed")
				}
			}
		})
	}
}

func TestNotifyAllEmptyStore(t *testing.T) {
	store := NewMemoryStore()
	sender := &fakeSender{}

	n := NewNotifier(store, sender, testConfig, zap.NewNop().Sugar())
	res, err := n.NotifyAll(context.Background(), Payload{Title: "t", Message: "m", URL: "/topics"})
	if err != nil {
		t.Fatalf("NotifyAll returned error for empty store: %v", err)
	}

	if res.Delivered != 0 || res.Failed != 0 || res.Total != 0 {
		t.Errorf("result = %+v, want all zero", res)
	}
	if sender.callCount() != 0 {
		t.Errorf("sender called %d times for empty store, want 0", sender.callCount())
	}
}

func TestNotifyAllMissingConfig(t *testing.T) {
	store := NewMemoryStore()
	seedSubscriptions(t, store, 1)
	sender := &fakeSender{}

	n := NewNotifier(store, sender, Config{}, zap.NewNop().Sugar())
	_, err := n.NotifyAll(context.Background(), Payload{Title: "t"})
	if !errors.Is(err, ErrMissingVAPIDConfig) {
		t.Fatalf("error = %v, want ErrMissingVAPIDConfig", err)
	}
	if sender.callCount() != 0 {
		t.Errorf("sender called despite missing credentials")
	}
}

// failingStore simulates an unreachable subscription store.
type failingStore struct{}

func (failingStore) ListAll(context.Context) ([]Subscription, error) {
	return nil, errors.New("connection refused")
}
func (failingStore) Upsert(context.Context, Subscription) error { return errors.New("connection refused") }
func (failingStore) Delete(context.Context, string) error       { return errors.New("connection refused") }

func TestNotifyAllStoreReadFailure(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(failingStore{}, sender, testConfig, zap.NewNop().Sugar())

	_, err := n.NotifyAll(context.Background(), Payload{Title: "t"})
	if err == nil {
		t.Fatal("NotifyAll should fail when the store read fails")
	}
	if sender.callCount() != 0 {
		t.Errorf("sender called despite store read failure")
	}
}
