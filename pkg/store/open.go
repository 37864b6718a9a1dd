package store

import (
	"context"
	"fmt"
)

// Options selección del backend de persistencia
type Options struct {
	Driver        Driver
	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open abre el backend configurado
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverRedis:
		return NewRedisClient(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	case DriverSQLite, DriverPostgres:
		return OpenSQL(ctx, opts.Driver, opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported store driver: %q", opts.Driver)
	}
}
