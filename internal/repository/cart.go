package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/verdantis/storefront/internal/constants"
	"github.com/verdantis/storefront/internal/domain"
	inErrors "github.com/verdantis/storefront/internal/errors"
)

// CartStore persists the full cart state. Every mutating cart operation ends
// with an explicit Save, making the persistence boundary visible and
// swappable for other storage backends.
type CartStore interface {
	Load(c context.Context, sessionID uuid.UUID) (*domain.Cart, error)
	Save(c context.Context, sessionID uuid.UUID, cart *domain.Cart) error
	Delete(c context.Context, sessionID uuid.UUID) error
}

// RedisCartStore serializes the whole cart, line-item snapshots and applied
// coupon included, as JSON under the fixed cart namespace.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

func (s *RedisCartStore) key(sessionID uuid.UUID) string {
	return constants.KeyCartNamespace + sessionID.String()
}

func (s *RedisCartStore) Load(c context.Context, sessionID uuid.UUID) (*domain.Cart, error) {
	data, err := s.client.Get(c, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, inErrors.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed getting cart from redis with error=%w", err)
	}

	cart := domain.Cart{}
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed unmarshaling cart with error=%w", err)
	}
	if cart.Items == nil {
		cart.Items = []domain.LineItem{}
	}
	return &cart, nil
}

func (s *RedisCartStore) Save(c context.Context, sessionID uuid.UUID, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed marshaling cart with error=%w", err)
	}
	if err := s.client.Set(c, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed setting cart in redis with error=%w", err)
	}
	return nil
}

func (s *RedisCartStore) Delete(c context.Context, sessionID uuid.UUID) error {
	if err := s.client.Del(c, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed deleting cart from redis with error=%w", err)
	}
	return nil
}
