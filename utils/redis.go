package utils

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

var rdb *redis.Client

// InitRedis connects the shared client. Redis is optional: callers that
// cache counters check GetRedis() for nil and fall back to the database.
func InitRedis(addr, password string, db int) error {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	rdb = client
	log.Println("Redis connected")
	return nil
}

func GetRedis() *redis.Client {
	return rdb
}

func CloseRedis() error {
	if rdb != nil {
		return rdb.Close()
	}
	return nil
}
