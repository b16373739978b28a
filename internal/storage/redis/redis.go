package redis

import (
	"context"
	"errors"
	"log"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"golang.org/x/xerrors"

	"github.com/PIRSON21/scoring/internal/config"
	custErr "github.com/PIRSON21/scoring/internal/lib/errors"
)

// Storage хранит закрытое в пакете соединение с Redis.
type Storage struct {
	client *goredis.Client
}

// MustConnectStore подключается к Redis по данным конфига: адрес, база,
// таймаут. Если сервер недоступен, приложение падает.
func MustConnectStore(cfg *config.Config) *Storage {
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.StoreAddress,
		DB:           cfg.StoreDB,
		DialTimeout:  cfg.StoreTimeout,
		ReadTimeout:  cfg.StoreTimeout,
		WriteTimeout: cfg.StoreTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("error when ping to store server: ", err)
	}

	return &Storage{client: client}
}

// Get читает значение ключа. Отсутствие ключа - ErrNotFound.
func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	const op = "storage.redis.Get"

	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", custErr.ErrNotFound
		}

		return "", xerrors.Errorf("%s: error while getting key: %w", op, err)
	}

	return value, nil
}

// CacheGet читает значение из кэша. Семантика та же, что у Get:
// решение пережить ошибку принимает вызывающий.
func (s *Storage) CacheGet(ctx context.Context, key string) (string, error) {
	return s.Get(ctx, key)
}

// CacheSet кладет значение в кэш на время ttl.
func (s *Storage) CacheSet(ctx context.Context, key string, value string, ttl time.Duration) error {
	const op = "storage.redis.CacheSet"

	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return xerrors.Errorf("%s: error while setting key: %w", op, err)
	}

	return nil
}
