package config

// Redis backs the pins response cache and the comment rate limiter.  Both
// are optional: when Redis is disabled or unreachable NewRedisClient returns
// nil and the middlewares turn into pass-throughs.

import (
	"context"
	"crypto/tls"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient instantiates a Redis client using environment variables:
//
//	REDIS_ENABLED  – "false" skips Redis entirely
//	REDIS_ADDR     – host:port (default localhost:6379), or REDIS_HOST + REDIS_PORT
//	REDIS_PASSWORD – optional password
//	REDIS_DB       – database number (default 0)
//	REDIS_TLS      – enable TLS when "true" or "1"
func NewRedisClient(ctx context.Context) *redis.Client {
	if !envBool("REDIS_ENABLED", true) {
		return nil
	}
	addr := os.Getenv("REDIS_ADDR")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}
	if addr == "" {
		addr = "localhost:6379"
	}
	dbNum := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if n, err := strconv.Atoi(dbStr); err == nil {
			dbNum = n
		}
	}
	var tlsConf *tls.Config
	if v := os.Getenv("REDIS_TLS"); strings.EqualFold(v, "true") || v == "1" {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        dbNum,
		TLSConfig: tlsConf,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warnf("redis: %s unreachable, cache and rate limit disabled: %v", addr, err)
		_ = client.Close()
		return nil
	}
	return client
}
