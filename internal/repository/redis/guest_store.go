package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golfProShop/domain"

	"github.com/redis/go-redis/v9"
)

// GuestCollectionStore keeps guest cart / wishlist / recently-viewed
// collections as JSON blobs keyed by guest ID and kind. Collections
// expire with the guest's TTL; an expired collection reads as empty.
type GuestCollectionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGuestCollectionStore(client *redis.Client, ttl time.Duration) *GuestCollectionStore {
	return &GuestCollectionStore{
		client: client,
		ttl:    ttl,
	}
}

// key format: "guest:{kind}:{guest_id}"
func guestKey(kind, guestID string) string {
	return fmt.Sprintf("guest:%s:%s", kind, guestID)
}

func (s *GuestCollectionStore) GetCart(ctx context.Context, guestID string) ([]domain.CartEntry, error) {
	val, err := s.client.Get(ctx, guestKey(domain.CollectionCart, guestID)).Result()
	if err != nil {
		if err == redis.Nil {
			return []domain.CartEntry{}, nil
		}
		return nil, fmt.Errorf("failed to read guest cart: %w", err)
	}

	var entries []domain.CartEntry
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal guest cart: %w", err)
	}

	return entries, nil
}

func (s *GuestCollectionStore) PutCart(ctx context.Context, guestID string, entries []domain.CartEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal guest cart: %w", err)
	}

	err = s.client.Set(ctx, guestKey(domain.CollectionCart, guestID), data, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to store guest cart: %w", err)
	}

	return nil
}

func (s *GuestCollectionStore) ClearCart(ctx context.Context, guestID string) error {
	err := s.client.Del(ctx, guestKey(domain.CollectionCart, guestID)).Err()
	if err != nil {
		return fmt.Errorf("failed to clear guest cart: %w", err)
	}

	return nil
}

func (s *GuestCollectionStore) GetPresence(ctx context.Context, guestID, kind string) ([]domain.PresenceEntry, error) {
	val, err := s.client.Get(ctx, guestKey(kind, guestID)).Result()
	if err != nil {
		if err == redis.Nil {
			return []domain.PresenceEntry{}, nil
		}
		return nil, fmt.Errorf("failed to read guest %s: %w", kind, err)
	}

	var entries []domain.PresenceEntry
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal guest %s: %w", kind, err)
	}

	return entries, nil
}

func (s *GuestCollectionStore) PutPresence(ctx context.Context, guestID, kind string, entries []domain.PresenceEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal guest %s: %w", kind, err)
	}

	err = s.client.Set(ctx, guestKey(kind, guestID), data, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to store guest %s: %w", kind, err)
	}

	return nil
}

func (s *GuestCollectionStore) ClearPresence(ctx context.Context, guestID, kind string) error {
	err := s.client.Del(ctx, guestKey(kind, guestID)).Err()
	if err != nil {
		return fmt.Errorf("failed to clear guest %s: %w", kind, err)
	}

	return nil
}
