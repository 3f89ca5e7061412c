package redis

import (
	"github.com/redis/go-redis/v9"
)

// New builds a Redis client for the given address and credentials. The
// client is handed to collaborators explicitly; there is no package-level
// instance.
func New(address, username, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})
}
