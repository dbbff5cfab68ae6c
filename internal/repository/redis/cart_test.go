package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfonso816/Tienda/internal/domain"
	apperrors "github.com/alfonso816/Tienda/pkg/errors"
)

func setupTestRedis(t *testing.T) (*CartRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCartRepository(client, 24*time.Hour, nil), mr
}

func sampleCart() *domain.Cart {
	now := time.Now().UTC().Truncate(time.Millisecond)
	c := domain.NewCart("sess-001", now, 24*time.Hour)
	c.AddItem(&domain.Product{ID: "p1", Name: "Vestido", Price: decimal.RequireFromString("45000.50"), Sizes: []string{"M"}}, "M")
	return c
}

func TestCartRepository_Get_Success(t *testing.T) {
	repo, mr := setupTestRedis(t)
	cart := sampleCart()
	cart.Version = 3
	data, err := json.Marshal(cart)
	require.NoError(t, err)
	require.NoError(t, mr.Set("tienda:cart:sess-001", string(data)))

	got, err := repo.Get(context.Background(), "sess-001")

	require.NoError(t, err)
	assert.Equal(t, 3, got.Version)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Vestido", got.Lines[0].Name)
	assert.True(t, decimal.RequireFromString("45000.5").Equal(got.Lines[0].UnitPrice))
}

func TestCartRepository_Get_NotFound(t *testing.T) {
	repo, _ := setupTestRedis(t)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartRepository_Get_Corrupt(t *testing.T) {
	repo, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("tienda:cart:bad", "{not json"))

	_, err := repo.Get(context.Background(), "bad")
	assert.ErrorContains(t, err, "unmarshal cart")
}

func TestCartRepository_SaveIfVersion_NewCart(t *testing.T) {
	repo, mr := setupTestRedis(t)
	cart := sampleCart()

	require.NoError(t, repo.SaveIfVersion(context.Background(), cart, 0))

	assert.Equal(t, 1, cart.Version)
	assert.True(t, mr.Exists("tienda:cart:sess-001"))
	assert.Equal(t, 24*time.Hour, mr.TTL("tienda:cart:sess-001"))

	got, err := repo.Get(context.Background(), "sess-001")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
}

func TestCartRepository_SaveIfVersion_Sequential(t *testing.T) {
	repo, _ := setupTestRedis(t)
	cart := sampleCart()
	ctx := context.Background()

	require.NoError(t, repo.SaveIfVersion(ctx, cart, 0))
	require.NoError(t, repo.SaveIfVersion(ctx, cart, cart.Version))
	assert.Equal(t, 2, cart.Version)
}

func TestCartRepository_SaveIfVersion_StaleVersion(t *testing.T) {
	repo, _ := setupTestRedis(t)
	ctx := context.Background()

	first := sampleCart()
	require.NoError(t, repo.SaveIfVersion(ctx, first, 0))

	stale := sampleCart()
	err := repo.SaveIfVersion(ctx, stale, 0)

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, 0, stale.Version)
}

func TestCartRepository_SaveIfVersion_RefreshesTTL(t *testing.T) {
	repo, mr := setupTestRedis(t)
	ctx := context.Background()
	cart := sampleCart()
	require.NoError(t, repo.SaveIfVersion(ctx, cart, 0))

	mr.FastForward(23 * time.Hour)
	require.NoError(t, repo.SaveIfVersion(ctx, cart, cart.Version))
	assert.Equal(t, 24*time.Hour, mr.TTL("tienda:cart:sess-001"))

	mr.FastForward(25 * time.Hour)
	_, err := repo.Get(ctx, "sess-001")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartRepository_Delete(t *testing.T) {
	repo, mr := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveIfVersion(ctx, sampleCart(), 0))

	require.NoError(t, repo.Delete(ctx, "sess-001"))
	assert.False(t, mr.Exists("tienda:cart:sess-001"))

	assert.NoError(t, repo.Delete(ctx, "sess-001"))
}

func TestCartRepository_Get_RedisDown(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { client.Close() })
	repo := NewCartRepository(client, time.Hour, nil)

	_, err := repo.Get(context.Background(), "sess-001")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.Error(t, repo.Ping(context.Background()))
}
