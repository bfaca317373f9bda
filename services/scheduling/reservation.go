package scheduling

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// ReservationStore hands out short-lived exclusive holds on a start instant.
// The hold covers the validate-and-insert window of appointment creation;
// two concurrent requests for the same instant cannot both win it.
type ReservationStore interface {
	Reserve(ctx context.Context, slot time.Time, ttl time.Duration) (bool, error)
	Release(ctx context.Context, slot time.Time) error
}

// RedisReservationStore implements ReservationStore with SETNX and a TTL, so
// an abandoned hold expires on its own.
type RedisReservationStore struct {
	Client *redis.Client
}

func NewRedisReservationStore(client *redis.Client) *RedisReservationStore {
	return &RedisReservationStore{Client: client}
}

func (s *RedisReservationStore) Reserve(ctx context.Context, slot time.Time, ttl time.Duration) (bool, error) {
	return s.Client.SetNX(ctx, reservationKey(slot), "held", ttl).Result()
}

func (s *RedisReservationStore) Release(ctx context.Context, slot time.Time) error {
	return s.Client.Del(ctx, reservationKey(slot)).Err()
}

func reservationKey(slot time.Time) string {
	return "slot_reservation:" + slot.UTC().Format(time.RFC3339)
}
