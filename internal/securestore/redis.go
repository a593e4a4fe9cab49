package securestore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/scorelens/scoreboard-gateway/internal/security"
)

// RedisStore keeps secrets in Redis, AES-256-GCM encrypted under a master key
// before they ever leave the process. Redis itself only sees ciphertext.
type RedisStore struct {
	client    *redis.Client
	service   string
	masterKey []byte
	logger    *zap.Logger
}

// NewRedisStore connects to Redis and verifies the master key length.
// masterKey is the base64 encoding of a 32-byte key.
func NewRedisStore(addr string, db int, password, service, masterKey string, logger *zap.Logger) (*RedisStore, error) {
	key, err := base64.StdEncoding.DecodeString(masterKey)
	if err != nil {
		return nil, fmt.Errorf("decode master key: %w", err)
	}
	if len(key) != security.KeySize {
		return nil, fmt.Errorf("master key must be %d bytes, got %d", security.KeySize, len(key))
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		DB:       db,
		Password: password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{client: client, service: service, masterKey: key, logger: logger}, nil
}

// newRedisStoreWithClient is used by tests to inject a miniredis-backed client.
func newRedisStoreWithClient(client *redis.Client, service string, masterKey []byte) *RedisStore {
	return &RedisStore{client: client, service: service, masterKey: masterKey, logger: zap.NewNop()}
}

func (s *RedisStore) storageKey(account string) string {
	return fmt.Sprintf("securestore:%s:%s", s.service, account)
}

func (s *RedisStore) Put(ctx context.Context, account string, secret []byte) error {
	ciphertext, err := security.Encrypt(secret, s.masterKey)
	if err != nil {
		return &BackendError{Op: "put", Err: err}
	}
	encoded := base64.StdEncoding.EncodeToString(ciphertext)
	if err := s.client.Set(ctx, s.storageKey(account), encoded, 0).Err(); err != nil {
		return s.wrap("put", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, account string) ([]byte, error) {
	encoded, err := s.client.Get(ctx, s.storageKey(account)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, s.wrap("get", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	secret, err := security.Decrypt(ciphertext, s.masterKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return secret, nil
}

func (s *RedisStore) Delete(ctx context.Context, account string) error {
	if err := s.client.Del(ctx, s.storageKey(account)).Err(); err != nil {
		return s.wrap("delete", err)
	}
	return nil
}

func (s *RedisStore) Exists(ctx context.Context, account string) (bool, error) {
	n, err := s.client.Exists(ctx, s.storageKey(account)).Result()
	if err != nil {
		return false, s.wrap("exists", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) wrap(op string, err error) error {
	s.logger.Warn("securestore.redis_op_failed",
		zap.String("op", op),
		zap.Error(err))
	return &BackendError{Op: op, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
