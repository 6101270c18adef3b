// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"parentfacile-go/pkg/log"
)

// rateKey 构造限流计数器的 Redis 键：按窗口名 + 客户端 IP 维度计数。
func rateKey(name, clientIP string) string {
	return fmt.Sprintf("ratelimit:%s:%s", name, clientIP)
}

// RateLimit 创建一个基于 Redis 固定窗口（INCR + EXPIRE）的限流中间件。
// name 区分不同的限流窗口（global/auth/zip 各自独立计数）。
// max <= 0 表示该窗口未启用。Redis 故障时放行并记日志：
// 限流器不可用不应拖垮读路径。
func RateLimit(rdb *redis.Client, name string, max int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if max <= 0 || rdb == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := rateKey(name, c.ClientIP())

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Warnf("限流计数失败（放行）: key=%s, err=%v", key, err)
			c.Next()
			return
		}
		// 窗口内第一次命中时设置过期时间
		if count == 1 {
			if err := rdb.Expire(ctx, key, window).Err(); err != nil {
				log.Warnf("限流窗口过期设置失败: key=%s, err=%v", key, err)
			}
		}

		if count > int64(max) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"ok": false, "message": "Trop de requêtes, réessayez plus tard"})
			return
		}

		c.Next()
	}
}
