package database

import (
	"context"

	"github.com/go-redis/redis/v8"
	"parentfacile-go/pkg/log"
)

// OpenRedis 建立 Redis 客户端连接并做一次 Ping 探活。
// 客户端由调用方注入（限流中间件使用），不保留包级单例。
func OpenRedis(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password, // no password set
		DB:       db,       // use default DB
	})

	// 测试连接
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Info("Redis client connected successfully")
	return rdb, nil
}
