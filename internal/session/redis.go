// Package session хранит серверные сессии в Redis и выпускает для них
// подписанные cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/messenger/internal/config"
)

// ErrNotFound сессия не существует или истекла.
var ErrNotFound = errors.New("session not found")

const keyPrefix = "session:"

// RedisStore хранит соответствие session id -> UID с TTL.
type RedisStore struct {
	Db *redis.Client
}

// NewRedisStore подключается к Redis и проверяет соединение.
func NewRedisStore(ctx context.Context, cfg config.RedisConnection) (*RedisStore, error) {
	const op = "session.NewRedisStore"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RedisStore{Db: db}, nil
}

// Create сохраняет новую сессию. Существующий id не перезаписывается.
func (s *RedisStore) Create(ctx context.Context, id, uid string, ttl time.Duration) error {
	const op = "session.Create"
	ok, err := s.Db.SetNX(ctx, keyPrefix+id, uid, ttl).Result()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return fmt.Errorf("%s: session %s already exists", op, id)
	}
	return nil
}

// Get возвращает UID владельца сессии.
func (s *RedisStore) Get(ctx context.Context, id string) (string, error) {
	const op = "session.Get"
	uid, err := s.Db.Get(ctx, keyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// Touch продлевает TTL живой сессии.
func (s *RedisStore) Touch(ctx context.Context, id string, ttl time.Duration) error {
	const op = "session.Touch"
	ok, err := s.Db.Expire(ctx, keyPrefix+id, ttl).Result()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// Delete удаляет сессию. Удаление несуществующей сессии не ошибка.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	const op = "session.Delete"
	if err := s.Db.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает клиент Redis.
func (s *RedisStore) Close() error {
	return s.Db.Close()
}
