package config

// Redis backs the rate limiters and the client-list response cache.  Both
// degrade to pass-through middleware when Redis is unavailable, so a failed
// connection at startup is reported but never fatal.

import (
	"context"
	"crypto/tls"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a client from the environment and pings it.
// Supported variables:
//
//	REDIS_URL                 – redis:// or rediss:// URL (wins over the rest)
//	REDIS_HOST, REDIS_PORT    – host and port of the server
//	REDIS_ADDR                – host:port shorthand
//	REDIS_PASSWORD, REDIS_DB  – credentials and database number
//	REDIS_TLS                 – "true"/"1" enables TLS
//
// It returns nil together with the connection error when the server cannot be
// reached; callers treat a nil client as "feature disabled".
func NewRedisClient() (*redis.Client, error) {
	var opts *redis.Options
	if raw := os.Getenv("REDIS_URL"); raw != "" {
		parsed, err := redis.ParseURL(raw)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		addr := os.Getenv("REDIS_ADDR")
		if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
			addr = host + ":" + port
		}
		if addr == "" {
			addr = "localhost:6379"
		}
		opts = &redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		}
		if v := os.Getenv("REDIS_TLS"); strings.EqualFold(v, "true") || v == "1" {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
