package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// Store сессии оформления в Redis.
// TTL продлевается при каждом чтении и записи; брошенная сессия просто истекает
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore создает хранилище сессий
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Create сохраняет новую сессию
func (s *Store) Create(ctx context.Context, session *domain.CheckoutSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%w: Create - marshal session: %v", ErrStore, err)
	}

	ok, err := s.client.SetNX(ctx, sessionKey(session.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("%w: Create - setnx: %v", ErrStore, err)
	}
	if !ok {
		return ErrSessionExists
	}
	return nil
}

// Get читает сессию и продлевает ее TTL
func (s *Store) Get(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	data, err := s.client.GetEx(ctx, sessionKey(id), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - getex: %v", ErrStore, err)
	}

	return decode(data)
}

// Update читает сессию, применяет fn и сохраняет результат.
// Запись выполняется в MULTI под WATCH ключа: если сессию успели изменить,
// возвращается ErrConcurrentUpdate. Ошибка fn прерывает запись и возвращается как есть
func (s *Store) Update(ctx context.Context, id string, fn func(session *domain.CheckoutSession) error) (*domain.CheckoutSession, error) {
	key := sessionKey(id)
	var updated *domain.CheckoutSession

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: Update - get: %v", ErrStore, err)
		}

		session, err := decode(data)
		if err != nil {
			return err
		}

		if err := fn(session); err != nil {
			return err
		}

		encoded, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("%w: Update - marshal session: %v", ErrStore, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		updated = session
		return nil
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return nil, ErrConcurrentUpdate
	}
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete удаляет сессию
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("%w: Delete - del: %v", ErrStore, err)
	}
	return nil
}

func decode(data []byte) (*domain.CheckoutSession, error) {
	var session domain.CheckoutSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("%w: unmarshal session: %v", ErrStore, err)
	}
	return &session, nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("checkout:session:%s", id)
}
