package push

import (
	"errors"
	"os"
)

// ErrMissingVAPIDConfig indicates that the delivery credentials required to
// sign push requests are not configured. It is fatal for the invocation that
// observes it; delivery is never attempted without credentials.
var ErrMissingVAPIDConfig = errors.New("missing VAPID configuration (VAPID_SUBJECT, VAPID_PUBLIC_KEY, VAPID_PRIVATE_KEY)")

// Config holds the VAPID credentials used to sign Web Push deliveries.
type Config struct {
	// Subject is the "from" identity sent to push services, usually a
	// mailto: address or site URL.
	Subject         string
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	// TTL is how long (seconds) a push service may retain an undelivered
	// notification before dropping it.
	TTL int
}

// ConfigFromEnv reads VAPID credentials from the environment and validates
// them, so a misconfigured process fails at startup rather than on first send.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Subject:         os.Getenv("VAPID_SUBJECT"),
		VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		TTL:             60 * 60 * 24,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports whether every required credential is present.
func (c Config) Validate() error {
	if c.Subject == "" || c.VAPIDPublicKey == "" || c.VAPIDPrivateKey == "" {
		return ErrMissingVAPIDConfig
	}
	return nil
}
