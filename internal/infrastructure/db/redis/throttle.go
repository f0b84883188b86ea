package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetThrottle enforces a cooldown between password-reset requests for the
// same email address.
// Key format: reset:cooldown:<lowercased email>
type ResetThrottle struct {
	client   *redis.Client
	cooldown time.Duration
}

// NewResetThrottle returns a throttle that admits one request per email every
// cooldown.
func NewResetThrottle(client *redis.Client, cooldown time.Duration) *ResetThrottle {
	return &ResetThrottle{client: client, cooldown: cooldown}
}

// Allow records the attempt and reports whether the cooldown had elapsed.
func (t *ResetThrottle) Allow(ctx context.Context, email string) (bool, error) {
	ok, err := t.client.SetNX(ctx, cooldownKey(email), "1", t.cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("reset throttle: %w", err)
	}
	return ok, nil
}

func cooldownKey(email string) string {
	return "reset:cooldown:" + strings.ToLower(strings.TrimSpace(email))
}
