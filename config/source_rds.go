package config

import (
	"context"
	"errors"

	"github.com/gomodule/redigo/redis"

	"github.com/15mga/hive/util"
)

// NewRedisSource GET prefix+name
func NewRedisSource(pool *redis.Pool, prefix string) *RedisSource {
	return &RedisSource{
		pool:   pool,
		prefix: prefix,
	}
}

type RedisSource struct {
	pool   *redis.Pool
	prefix string
}

func (s *RedisSource) Get(ctx context.Context, name string) ([]byte, *util.Err) {
	conn, e := s.pool.GetContext(ctx)
	if e != nil {
		return nil, util.WrapErr(util.EcRedisErr, e)
	}
	defer conn.Close()
	bytes, e := redis.Bytes(conn.Do("GET", s.prefix+name))
	if e != nil {
		if errors.Is(e, redis.ErrNil) {
			return nil, notExist(name)
		}
		return nil, util.WrapErr(util.EcRedisErr, e)
	}
	return bytes, nil
}

func (s *RedisSource) Put(ctx context.Context, name string, data []byte) *util.Err {
	conn, e := s.pool.GetContext(ctx)
	if e != nil {
		return util.WrapErr(util.EcRedisErr, e)
	}
	defer conn.Close()
	_, e = conn.Do("SET", s.prefix+name, data)
	if e != nil {
		return util.WrapErr(util.EcRedisErr, e)
	}
	return nil
}

// NewRedisPool addr如127.0.0.1:6379
func NewRedisPool(addr, password string, db, maxIdle int) *redis.Pool {
	return &redis.Pool{
		MaxIdle: maxIdle,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", addr,
				redis.DialPassword(password),
				redis.DialDatabase(db),
			)
		},
	}
}
