// Package cache connects the process to Redis with startup retries,
// since the cache container may come up after the API.
package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Host string
	Port string
}

// NewRedisClient dials Redis and pings until it answers, retrying a
// bounded number of times before giving up.
func NewRedisClient(cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		DB:   0,
	})

	var err error
	maxRetries := 10

	for i := 1; i <= maxRetries; i++ {
		log.Printf("Connecting to Redis (Attempt %d/%d)...", i, maxRetries)
		err = client.Ping(context.Background()).Err()
		if err == nil {
			log.Println("Redis connected successfully!")
			return client, nil
		}

		log.Printf("Redis not ready yet. Waiting 2 seconds...")
		time.Sleep(2 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to redis: %v", err)
}
