package scoring

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/xerrors"

	custErr "github.com/PIRSON21/scoring/internal/lib/errors"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.0 --name=KeyValue
type KeyValue interface {
	Get(ctx context.Context, key string) (string, error)
	CacheGet(ctx context.Context, key string) (string, error)
	CacheSet(ctx context.Context, key string, value string, ttl time.Duration) error
}

// Person - атрибуты, по которым считается скор. Пустая строка означает,
// что атрибут не передан.
type Person struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Birthday  string
	Gender    *int
}

// scoreTTL - время жизни посчитанного скора в кэше.
const scoreTTL = time.Hour

// dateLayout - формат даты рождения в Person.
const dateLayout = "02.01.2006"

// Service считает скор и выдает интересы клиентов поверх key-value хранилища.
type Service struct {
	store KeyValue
	log   *slog.Logger
}

func New(store KeyValue, log *slog.Logger) *Service {
	return &Service{
		store: store,
		log:   log,
	}
}

// Score считает скор по заполненным атрибутам. Посчитанное значение
// кэшируется на час. Недоступность кэша не ошибка: скор считается заново.
func (s *Service) Score(ctx context.Context, p *Person) (float64, error) {
	const op = "scoring.Score"

	key := cacheKey(p)

	cached, err := s.store.CacheGet(ctx, key)
	if err == nil {
		if score, parseErr := strconv.ParseFloat(cached, 64); parseErr == nil && score > 0 {
			return score, nil
		}
	} else if !errors.Is(err, custErr.ErrNotFound) {
		s.log.Warn("score cache unavailable", slog.String("op", op), slog.String("err", err.Error()))
	}

	var score float64
	if p.Phone != "" {
		score += 1.5
	}
	if p.Email != "" {
		score += 1.5
	}
	if p.Birthday != "" && p.Gender != nil {
		score += 1.5
	}
	if p.FirstName != "" && p.LastName != "" {
		score += 0.5
	}

	value := strconv.FormatFloat(score, 'f', -1, 64)
	if err := s.store.CacheSet(ctx, key, value, scoreTTL); err != nil {
		s.log.Warn("score not cached", slog.String("op", op), slog.String("err", err.Error()))
	}

	return score, nil
}

// Interests возвращает интересы клиента из хранилища. Отсутствие ключа -
// пустой список, остальные ошибки хранилища поднимаются наверх.
func (s *Service) Interests(ctx context.Context, clientID int) ([]string, error) {
	const op = "scoring.Interests"

	raw, err := s.store.Get(ctx, fmt.Sprintf("i:%d", clientID))
	if err != nil {
		if errors.Is(err, custErr.ErrNotFound) {
			return []string{}, nil
		}

		return nil, xerrors.Errorf("%s: error while getting interests: %w", op, err)
	}

	var interests []string
	if err := json.Unmarshal([]byte(raw), &interests); err != nil {
		return nil, xerrors.Errorf("%s: error while decoding interests: %w", op, err)
	}

	return interests, nil
}

// cacheKey строит ключ кэша скора из имени, фамилии, телефона и даты
// рождения в виде YYYYMMDD.
func cacheKey(p *Person) string {
	var birthday string
	if p.Birthday != "" {
		if t, err := time.Parse(dateLayout, p.Birthday); err == nil {
			birthday = t.Format("20060102")
		}
	}

	sum := md5.Sum([]byte(p.FirstName + p.LastName + p.Phone + birthday))

	return "uid:" + hex.EncodeToString(sum[:])
}
