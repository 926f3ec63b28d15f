package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"catalog/internal/models"
)

// ErrTokenNotFound — токен неизвестен, отозван или истёк
var ErrTokenNotFound = errors.New("token not found")

// TokenStore хранит sha256 выданных токенов
type TokenStore interface {
	Put(ctx context.Context, hash string, userID uint) error
	Lookup(ctx context.Context, hash string) (uint, error)
	Revoke(ctx context.Context, hash string) error
}

// NewToken — 40 случайных hex-символов
func NewToken() string {
	raw := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	return raw[:40]
}

func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// DBTokenStore — таблица access_tokens
type DBTokenStore struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewDBTokenStore(db *gorm.DB, ttl time.Duration) *DBTokenStore {
	return &DBTokenStore{db: db, ttl: ttl}
}

func (s *DBTokenStore) Put(ctx context.Context, hash string, userID uint) error {
	t := models.AccessToken{UserID: userID, TokenHash: hash}
	if s.ttl > 0 {
		exp := time.Now().Add(s.ttl)
		t.ExpiresAt = &exp
	}
	return s.db.WithContext(ctx).Omit("User").Create(&t).Error
}

func (s *DBTokenStore) Lookup(ctx context.Context, hash string) (uint, error) {
	var t models.AccessToken
	err := s.db.WithContext(ctx).Where("token_hash = ?", hash).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, err
	}
	now := time.Now()
	if t.ExpiresAt != nil && t.ExpiresAt.Before(now) {
		return 0, ErrTokenNotFound
	}
	// last_used_at — только для информации, ошибку не пробрасываем
	_ = s.db.WithContext(ctx).Model(&t).UpdateColumn("last_used_at", now).Error
	return t.UserID, nil
}

func (s *DBTokenStore) Revoke(ctx context.Context, hash string) error {
	return s.db.WithContext(ctx).Where("token_hash = ?", hash).Delete(&models.AccessToken{}).Error
}

// RedisTokenStore — токены с TTL в redis, ключ "<prefix><hash>"
type RedisTokenStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisTokenStore(rdb *redis.Client, ttl time.Duration) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb, ttl: ttl, prefix: "catalog:token:"}
}

func (s *RedisTokenStore) Put(ctx context.Context, hash string, userID uint) error {
	return s.rdb.Set(ctx, s.prefix+hash, strconv.FormatUint(uint64(userID), 10), s.ttl).Err()
}

func (s *RedisTokenStore) Lookup(ctx context.Context, hash string) (uint, error) {
	v, err := s.rdb.Get(ctx, s.prefix+hash).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupted token entry: %w", err)
	}
	return uint(id), nil
}

func (s *RedisTokenStore) Revoke(ctx context.Context, hash string) error {
	return s.rdb.Del(ctx, s.prefix+hash).Err()
}
