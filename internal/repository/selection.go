package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSelectionNotFound is returned when a selection token is unknown
// or has expired. Callers treat it as "nothing to redeem".
var ErrSelectionNotFound = errors.New("selection not found")

// SelectionStore keeps the offer an anonymous visitor picked before
// authenticating. The selection lives server-side under an opaque
// token with a TTL, so the client only ever holds an unguessable
// handle instead of a tamperable offer id.
type SelectionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSelectionStore(client *redis.Client, ttl time.Duration) *SelectionStore {
	return &SelectionStore{
		client: client,
		ttl:    ttl,
	}
}

func selectionKey(token string) string {
	return "selection:" + token
}

// Stash records the offer id and returns the token the client presents
// back at login.
func (s *SelectionStore) Stash(ctx context.Context, offerID uint) (string, error) {
	token := uuid.NewString()

	err := s.client.Set(ctx, selectionKey(token), strconv.FormatUint(uint64(offerID), 10), s.ttl).Err()
	if err != nil {
		return "", fmt.Errorf("s.client.Set -> %w", err)
	}

	return token, nil
}

// Redeem returns the stashed offer id and deletes the token. Tokens are
// single-use.
func (s *SelectionStore) Redeem(ctx context.Context, token string) (uint, error) {
	val, err := s.client.GetDel(ctx, selectionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSelectionNotFound
		}

		return 0, fmt.Errorf("s.client.GetDel -> %w", err)
	}

	offerID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, ErrSelectionNotFound
	}

	return uint(offerID), nil
}
