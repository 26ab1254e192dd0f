package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist tracks revoked token ids in Redis until their natural expiry.
type Denylist struct {
	client *redis.Client
}

// NewDenylist constructs a Denylist backed by the given client.
func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{client: client}
}

func denylistKey(tokenID string) string {
	return "meridian:denylist:" + tokenID
}

// Revoke marks a token id revoked until expiresAt.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if d == nil || d.client == nil || tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistKey(tokenID), "1", ttl).Err()
}

// IsRevoked reports whether the token id has been revoked.
func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if d == nil || d.client == nil || tokenID == "" {
		return false, nil
	}
	n, err := d.client.Exists(ctx, denylistKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
