package store

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix prefijo de todas las claves del quiz en Redis
const KeyPrefix = "quizgate:"

// RedisClient estructura para manejar conexiones con Redis
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient crea una nueva instancia del cliente Redis y verifica la conexión
func NewRedisClient(ctx context.Context, addr, password string, db int) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrapf(err, "error conectando a Redis en %s", addr)
	}

	return &RedisClient{client: rdb}, nil
}

func redisKey(key string) string {
	return fmt.Sprintf("%s%s", KeyPrefix, key)
}

// Get obtiene el valor de una clave
func (r *RedisClient) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "error obteniendo %s", key)
	}
	return value, true, nil
}

// Set guarda el valor sin expiración
func (r *RedisClient) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, redisKey(key), value, 0).Err(); err != nil {
		return errors.Wrapf(err, "error guardando %s", key)
	}
	return nil
}

// HealthCheck verifica que Redis esté funcionando
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "redis health check failed")
	}
	return nil
}

// Close cierra la conexión con Redis
func (r *RedisClient) Close() error {
	return r.client.Close()
}
