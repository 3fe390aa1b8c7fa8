package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	Client *redis.Client
	ctx    = context.Background()
)

var ErrUnavailable = errors.New("cache: redis is not connected")

func InitRedis(logger *zap.Logger) error {
	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		redisHost = "localhost"
	}

	redisPort := os.Getenv("REDIS_PORT")
	if redisPort == "" {
		redisPort = "6379"
	}

	addr := fmt.Sprintf("%s:%s", redisHost, redisPort)

	Client = redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	if err := Client.Ping(ctx).Err(); err != nil {
		logger.Error("redis_connection_failed", zap.Error(err), zap.String("addr", addr))
		Client = nil
		return err
	}

	logger.Info("redis_connected", zap.String("addr", addr))
	return nil
}

func Set(key string, value interface{}, expiration time.Duration) error {
	if Client == nil {
		return ErrUnavailable
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	return Client.Set(ctx, key, data, expiration).Err()
}

// Get читает значение и десериализует в dest. Промах или недоступный Redis
// возвращают ошибку - вызывающий код идёт в базу.
func Get(key string, dest interface{}) error {
	if Client == nil {
		return ErrUnavailable
	}

	val, err := Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return fmt.Errorf("cache miss: %w", err)
	} else if err != nil {
		return fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return nil
}

func Delete(key string) error {
	if Client == nil {
		return ErrUnavailable
	}
	return Client.Del(ctx, key).Err()
}

// DeletePattern удаляет все ключи по шаблону (например, events:1:*)
func DeletePattern(pattern string) error {
	if Client == nil {
		return ErrUnavailable
	}

	var cursor uint64
	for {
		keys, next, err := Client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := Client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete keys failed: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}

// IncrementCounter увеличивает счётчик и ставит TTL при первом инкременте
func IncrementCounter(key string, expiration time.Duration) (int64, error) {
	if Client == nil {
		return 0, ErrUnavailable
	}

	val, err := Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}

	if val == 1 {
		if err := Client.Expire(ctx, key, expiration).Err(); err != nil {
			return val, err
		}
	}
	return val, nil
}

func Close() error {
	if Client != nil {
		return Client.Close()
	}
	return nil
}
