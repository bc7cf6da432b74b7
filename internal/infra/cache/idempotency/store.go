package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseScript удаляет ключ, только если он все еще указывает на наше намерение
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Store ключи идемпотентности: ключ клиента -> ID созданного платежного намерения
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore создает хранилище ключей идемпотентности
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Reserve закрепляет ключ за intentID.
// Если ключ уже занят, возвращает ID ранее закрепленного намерения и reserved=false
func (s *Store) Reserve(ctx context.Context, key, intentID string) (string, bool, error) {
	ok, err := s.client.SetNX(ctx, idempotencyKey(key), intentID, s.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("%w: Reserve - setnx: %v", ErrStore, err)
	}
	if ok {
		return intentID, true, nil
	}

	existing, err := s.client.Get(ctx, idempotencyKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		// Ключ истек между SETNX и GET - пробуем еще раз
		return s.Reserve(ctx, key, intentID)
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: Reserve - get: %v", ErrStore, err)
	}

	return existing, false, nil
}

// Release снимает резерв, если создание намерения не удалось
func (s *Store) Release(ctx context.Context, key, intentID string) error {
	if err := releaseScript.Run(ctx, s.client, []string{idempotencyKey(key)}, intentID).Err(); err != nil {
		return fmt.Errorf("%w: Release - script: %v", ErrStore, err)
	}
	return nil
}

func idempotencyKey(key string) string {
	return fmt.Sprintf("payments:idempotency:%s", key)
}
