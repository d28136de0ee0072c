package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-api/internal/domain"
	infraredis "github.com/jhoicas/gestion-api/internal/infrastructure/redis"
	"github.com/jhoicas/gestion-api/pkg/config"
	"github.com/jhoicas/gestion-api/pkg/logger"
)

func newLocker(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *infraredis.Locker) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, infraredis.NewLocker(client, ttl, logger.Nop())
}

func TestLocker_Exclusivo(t *testing.T) {
	ctx := context.Background()
	_, l := newLocker(t, time.Minute)

	release, err := l.Acquire(ctx, "liquidation:1")
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "liquidation:1")
	assert.ErrorIs(t, err, domain.ErrSettlementBusy)
	assert.ErrorIs(t, err, domain.ErrConflict)

	other, err := l.Acquire(ctx, "liquidation:2")
	require.NoError(t, err, "otra clave no se bloquea")
	other()

	release()
	again, err := l.Acquire(ctx, "liquidation:1")
	require.NoError(t, err)
	again()
}

func TestLocker_ExpiraPorTTL(t *testing.T) {
	ctx := context.Background()
	mr, l := newLocker(t, 5*time.Second)

	_, err := l.Acquire(ctx, "liquidation:1")
	require.NoError(t, err)
	mr.FastForward(6 * time.Second)

	release, err := l.Acquire(ctx, "liquidation:1")
	require.NoError(t, err)
	release()
}

func TestLocker_NoLiberaClaveAjena(t *testing.T) {
	ctx := context.Background()
	mr, l := newLocker(t, 5*time.Second)

	stale, err := l.Acquire(ctx, "liquidation:1")
	require.NoError(t, err)
	mr.FastForward(6 * time.Second)

	_, err = l.Acquire(ctx, "liquidation:1")
	require.NoError(t, err)

	stale()
	assert.True(t, mr.Exists("gestion:lock:liquidation:1"), "el token antiguo no borra el bloqueo nuevo")
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := infraredis.NewClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	_ = client.Close()

	mr.Close()
	_, err = infraredis.NewClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	assert.Error(t, err)
}
