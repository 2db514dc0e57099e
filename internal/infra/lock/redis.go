package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
)

var ErrLockTimeout = errors.New("timed out waiting for slot lock")

// só apaga se o token ainda for nosso
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisOptions struct {
	TTL   time.Duration
	Wait  time.Duration
	Retry time.Duration
}

// RedisLocker shares the barber/day lock across API instances with
// SET NX plus a token-checked release.
type RedisLocker struct {
	client *redis.Client
	opts   RedisOptions
	log    *zap.Logger
}

func NewRedisLocker(client *redis.Client, opts RedisOptions, log *zap.Logger) *RedisLocker {
	if opts.TTL <= 0 {
		opts.TTL = 15 * time.Second
	}
	if opts.Wait <= 0 {
		opts.Wait = 5 * time.Second
	}
	if opts.Retry <= 0 {
		opts.Retry = 50 * time.Millisecond
	}
	return &RedisLocker{
		client: client,
		opts:   opts,
		log:    log.With(zap.String("component", "redis_lock")),
	}
}

func (l *RedisLocker) Lock(ctx context.Context, barberID uint, date string) (func(), error) {
	k := key(barberID, date)
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, l.opts.Wait)
	defer cancel()

	ticker := time.NewTicker(l.opts.Retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, k, token, l.opts.TTL).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("acquire %s: %w", k, err)
		}
		if ok {
			return l.release(k, token), nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ErrLockTimeout
		}
	}
}

func (l *RedisLocker) release(k, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, l.client, []string{k}, token).Err(); err != nil {
				l.log.Warn("release slot lock failed", zap.String("key", k), zap.Error(err))
			}
		})
	}
}

var _ domain.SlotLocker = (*RedisLocker)(nil)
