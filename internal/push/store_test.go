package push

import (
	"context"
	"testing"
)

func TestUpsertIsIdempotentByEndpoint(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sub := Subscription{
		Endpoint: "https://push.example.com/sub-a",
		P256dh:   "p256dh-key",
		Auth:     "auth-secret",
	}

	if err := store.Upsert(ctx, sub); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := store.Upsert(ctx, sub); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	subs, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("store has %d rows after duplicate registration, want 1", len(subs))
	}
}

func TestUpsertPreservesOwnerOnAnonymousReRegistration(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := Subscription{
		Endpoint:     "https://push.example.com/sub-a",
		P256dh:       "p256dh-key",
		Auth:         "auth-secret",
		OwnerShortID: "alice",
	}
	if err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("upsert with owner failed: %v", err)
	}

	// Same endpoint, no owner: the stored owner must survive.
	second := first
	second.OwnerShortID = ""
	second.P256dh = "rotated-p256dh"
	if err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("anonymous re-registration failed: %v", err)
	}

	subs, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("store has %d rows, want 1", len(subs))
	}
	if subs[0].OwnerShortID != "alice" {
		t.Errorf("owner = %q after anonymous re-registration, want %q", subs[0].OwnerShortID, "alice")
	}
	if subs[0].P256dh != "rotated-p256dh" {
		t.Errorf("p256dh = %q, want updated key material", subs[0].P256dh)
	}
}

func TestUpsertOverwritesOwnerWhenProvided(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sub := Subscription{
		Endpoint:     "https://push.example.com/sub-a",
		P256dh:       "p256dh-key",
		Auth:         "auth-secret",
		OwnerShortID: "alice",
	}
	if err := store.Upsert(ctx, sub); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	sub.OwnerShortID = "bob"
	if err := store.Upsert(ctx, sub); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	subs, _ := store.ListAll(ctx)
	if subs[0].OwnerShortID != "bob" {
		t.Errorf("owner = %q, want %q", subs[0].OwnerShortID, "bob")
	}
}

func TestUpsertRejectsIncompleteSubscription(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	tests := []struct {
		name string
		sub  Subscription
	}{
		{name: "missing endpoint", sub: Subscription{P256dh: "k", Auth: "a"}},
		{name: "missing p256dh", sub: Subscription{Endpoint: "https://e", Auth: "a"}},
		{name: "missing auth", sub: Subscription{Endpoint: "https://e", P256dh: "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.Upsert(ctx, tt.sub); err != ErrInvalidSubscription {
				t.Errorf("error = %v, want ErrInvalidSubscription", err)
			}
		})
	}

	subs, _ := store.ListAll(ctx)
	if len(subs) != 0 {
		t.Errorf("invalid registrations wrote %d rows, want 0", len(subs))
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sub := Subscription{Endpoint: "https://push.example.com/sub-a", P256dh: "k", Auth: "a"}
	if err := store.Upsert(ctx, sub); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	subs, _ := store.ListAll(ctx)

	if err := store.Delete(ctx, subs[0].ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	// Concurrent fan-out invocations may delete the same dead row twice.
	if err := store.Delete(ctx, subs[0].ID); err != nil {
		t.Fatalf("second delete of same id failed: %v", err)
	}

	remaining, _ := store.ListAll(ctx)
	if len(remaining) != 0 {
		t.Errorf("store has %d rows after delete, want 0", len(remaining))
	}
}
