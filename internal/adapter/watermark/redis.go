package watermark

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"twir-bot/internal/domain/ports"
)

// connectionTimeout bounds the ping done when the client is created.
const connectionTimeout = 5 * time.Second

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// RedisStore keeps the watermark under a single Redis key.
type RedisStore struct {
	client *redis.Client
	key    string
	logger ports.Logger
}

var _ ports.WatermarkStore = (*RedisStore)(nil)

// NewRedisStore creates a RedisStore. An empty key selects DefaultName.
func NewRedisStore(client *redis.Client, key string, logger ports.Logger) *RedisStore {
	if key == "" {
		key = DefaultName
	}
	return &RedisStore{client: client, key: key, logger: logger}
}

// Load reads the watermark. A missing or unparsable value reads as 0.
func (s *RedisStore) Load(ctx context.Context) (int, error) {
	raw, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get watermark: %w", err)
	}
	return parseID(ctx, s.logger, raw), nil
}

// Save overwrites the stored watermark with id.
func (s *RedisStore) Save(ctx context.Context, id int) error {
	if err := s.client.Set(ctx, s.key, strconv.Itoa(id), 0).Err(); err != nil {
		return fmt.Errorf("set watermark: %w", err)
	}
	return nil
}
