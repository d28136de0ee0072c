package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/gestion-api/internal/application/settlement"
	"github.com/jhoicas/gestion-api/internal/domain"
	"github.com/jhoicas/gestion-api/pkg/logger"
)

var _ settlement.Locker = (*Locker)(nil)

const keyPrefix = "gestion:lock:"

// releaseScript borra la clave solo si sigue siendo nuestra.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Locker bloqueo por clave con SET NX PX. El TTL libera la clave si el proceso muere.
type Locker struct {
	client *goredis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewLocker construye el locker.
func NewLocker(client *goredis.Client, ttl time.Duration, log *logger.Logger) *Locker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Locker{client: client, ttl: ttl, log: log.Component("redis_lock")}
}

// Acquire toma la clave sin esperar. Ocupada => domain.ErrSettlementBusy.
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.New().String()
	ok, err := l.client.SetNX(ctx, keyPrefix+key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lock %s: %w", key, err)
	}
	if !ok {
		return nil, domain.ErrSettlementBusy
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{keyPrefix + key}, token).Err(); err != nil {
			l.log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar el bloqueo; expirará por TTL")
		}
	}, nil
}
