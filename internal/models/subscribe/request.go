package models

import "strings"

// SubscriptionKeys is the browser-issued key pair the push service needs to
// encrypt payloads for this endpoint. Opaque; forwarded, never inspected.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// SubscribeRequest is the registration entry point's wire shape. The owner
// identifier historically arrived under two spellings; both are accepted and
// normalized before any business logic runs.
type SubscribeRequest struct {
	Endpoint         string           `json:"endpoint"`
	Keys             SubscriptionKeys `json:"keys"`
	UserShortID      string           `json:"user_short_id"`
	UserShortIDCamel string           `json:"userShortId"`
}

// OwnerShortID returns the canonical owner identifier, preferring the
// snake_case spelling when both are present.
func (r *SubscribeRequest) OwnerShortID() string {
	if v := strings.TrimSpace(r.UserShortID); v != "" {
		return v
	}
	return strings.TrimSpace(r.UserShortIDCamel)
}
