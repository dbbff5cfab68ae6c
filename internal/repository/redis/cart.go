// Package redis stores shopper carts in Redis as JSON documents with a TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alfonso816/Tienda/internal/domain"
	"github.com/alfonso816/Tienda/pkg/database"
	apperrors "github.com/alfonso816/Tienda/pkg/errors"
)

const keyPrefix = "tienda:cart:"

// CartRepository implements repository.CartRepository using Redis.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
	inst   *database.Instrument
}

// NewCartRepository creates a Redis-backed cart repository. Every save
// refreshes the key's TTL.
func NewCartRepository(client *redis.Client, ttl time.Duration, inst *database.Instrument) *CartRepository {
	return &CartRepository{client: client, ttl: ttl, inst: inst}
}

func key(sessionID string) string { return keyPrefix + sessionID }

// Get retrieves a cart by session id.
func (r *CartRepository) Get(ctx context.Context, sessionID string) (_ *domain.Cart, err error) {
	ctx, end := r.inst.Start(ctx, "GetCart", "GET "+keyPrefix+"*")
	defer func() { end(err) }()

	data, err := r.client.Get(ctx, key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("cart", sessionID)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}
	return decode(data)
}

// SaveIfVersion writes cart inside a WATCH/MULTI transaction so a
// concurrent writer that bumped the version makes this save fail with
// ErrConflict.
func (r *CartRepository) SaveIfVersion(ctx context.Context, cart *domain.Cart, expected int) (err error) {
	ctx, end := r.inst.Start(ctx, "SaveCart", "WATCH/MULTI SET "+keyPrefix+"*")
	defer func() { end(err) }()

	k := key(cart.SessionID)
	next := *cart
	next.Version = expected + 1
	data, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := storedVersion(ctx, tx, k)
		if err != nil {
			return err
		}
		if current != expected {
			return apperrors.Conflict(fmt.Sprintf("cart %s changed: version %d, expected %d", cart.SessionID, current, expected))
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, data, r.ttl)
			return nil
		})
		return err
	}, k)
	switch {
	case err == nil:
		cart.Version = next.Version
		return nil
	case errors.Is(err, redis.TxFailedErr):
		return apperrors.Conflict(fmt.Sprintf("cart %s changed concurrently", cart.SessionID))
	case errors.Is(err, apperrors.ErrConflict):
		return err
	default:
		return fmt.Errorf("redis save cart: %w", err)
	}
}

// Delete removes a cart by session id.
func (r *CartRepository) Delete(ctx context.Context, sessionID string) (err error) {
	ctx, end := r.inst.Start(ctx, "DeleteCart", "DEL "+keyPrefix+"*")
	defer func() { end(err) }()

	if err = r.client.Del(ctx, key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}

// Ping reports whether Redis answers.
func (r *CartRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func storedVersion(ctx context.Context, tx *redis.Tx, k string) (int, error) {
	data, err := tx.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get cart: %w", err)
	}
	c, err := decode(data)
	if err != nil {
		return 0, err
	}
	return c.Version, nil
}

func decode(data []byte) (*domain.Cart, error) {
	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	if cart.Lines == nil {
		cart.Lines = []domain.Line{}
	}
	return &cart, nil
}
