package push

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrInvalidSubscription indicates a registration request missing the
// endpoint or key material. It is rejected before any store access.
var ErrInvalidSubscription = errors.New("invalid subscription payload")

// Subscription is one device's registered push endpoint. The endpoint is the
// natural key: re-registration from the same device updates the existing row.
// The key material is opaque and only ever forwarded to the push service.
type Subscription struct {
	ID           string    `json:"id" db:"id"`
	Endpoint     string    `json:"endpoint" db:"endpoint"`
	P256dh       string    `json:"p256dh" db:"p256dh"`
	Auth         string    `json:"auth" db:"auth"`
	OwnerShortID string    `json:"owner_short_id,omitempty" db:"owner_short_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Valid reports whether the subscription carries everything a delivery needs.
func (s Subscription) Valid() bool {
	return s.Endpoint != "" && s.P256dh != "" && s.Auth != ""
}

// SubscriptionStore is the persistence contract for push subscriptions.
type SubscriptionStore interface {
	// ListAll returns every registered subscription.
	ListAll(ctx context.Context) ([]Subscription, error)
	// Upsert creates or refreshes a subscription keyed by endpoint. An empty
	// OwnerShortID never overwrites a previously stored owner.
	Upsert(ctx context.Context, sub Subscription) error
	// Delete removes a subscription by id. Deleting an absent row is not an error.
	Delete(ctx context.Context, id string) error
}

// PGStore is the PostgreSQL-backed subscription store.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a subscription store over the given connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) ListAll(ctx context.Context) ([]Subscription, error) {
	query := `
		SELECT id, endpoint, p256dh, auth, COALESCE(owner_short_id, ''), created_at, updated_at
		FROM push_subscriptions`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list push subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		var sub Subscription
		if err := rows.Scan(&sub.ID, &sub.Endpoint, &sub.P256dh, &sub.Auth, &sub.OwnerShortID, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan push subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read push subscriptions: %w", err)
	}

	return subs, nil
}

func (s *PGStore) Upsert(ctx context.Context, sub Subscription) error {
	if !sub.Valid() {
		return ErrInvalidSubscription
	}

	// NULLIF + COALESCE keeps an already-stored owner when the incoming
	// registration carries no owner, so an anonymous re-registration never
	// erases a known one.
	query := `
		INSERT INTO push_subscriptions (endpoint, p256dh, auth, owner_short_id)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		ON CONFLICT (endpoint)
		DO UPDATE SET
			p256dh = EXCLUDED.p256dh,
			auth = EXCLUDED.auth,
			owner_short_id = COALESCE(EXCLUDED.owner_short_id, push_subscriptions.owner_short_id),
			updated_at = NOW()`

	if _, err := s.pool.Exec(ctx, query, sub.Endpoint, sub.P256dh, sub.Auth, sub.OwnerShortID); err != nil {
		return fmt.Errorf("failed to upsert push subscription: %w", err)
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM push_subscriptions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete push subscription: %w", err)
	}
	return nil
}
