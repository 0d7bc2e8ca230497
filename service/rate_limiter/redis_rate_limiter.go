/*
 * @module service/rate_limiter/redis_rate_limiter
 * @description 基于Redis固定窗口计数的请求限流
 * @architecture 分层架构 - 中间件层
 * @documentReference docs/rate_limiting.md
 * @stateFlow 请求进入 -> 窗口计数自增 -> 超限返回429
 * @rules 限流键按客户端标识(API密钥前缀或远端地址)划分;
 *        Redis不可用时放行,可用性优先于限流精度
 * @dependencies github.com/go-redis/redis/v8(经连接器), github.com/go-chi/render
 * @refs client/connectors/redis_connector.go, api/routes.go
 */
package rate_limiter

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"posmdf-service/client/connectors"

	"github.com/go-chi/render"
)

// RedisRateLimiter 固定窗口限流器
type RedisRateLimiter struct {
	redis  *connectors.RedisConnector
	limit  int64
	window time.Duration
	logger *slog.Logger
}

// NewRedisRateLimiter 创建限流器,limit 为窗口内允许的请求数
func NewRedisRateLimiter(redis *connectors.RedisConnector, limit int64, window time.Duration, logger *slog.Logger) *RedisRateLimiter {
	if limit <= 0 {
		limit = 100
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisRateLimiter{
		redis:  redis,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

// Middleware chi中间件入口
func (rl *RedisRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.redis == nil || !rl.redis.IsConnected() {
			next.ServeHTTP(w, r)
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%d", clientIdentity(r), time.Now().Unix()/int64(rl.window.Seconds()))
		count, err := rl.redis.Incr(r.Context(), key, rl.window)
		if err != nil {
			rl.logger.Warn("限流计数失败,放行请求", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		if count > rl.limit {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(rl.window.Seconds())))
			render.Status(r, http.StatusTooManyRequests)
			render.JSON(w, r, map[string]interface{}{
				"status": http.StatusTooManyRequests,
				"msg":    "too many requests",
				"data":   nil,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIdentity 优先用API密钥前缀,否则用远端地址
func clientIdentity(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); len(key) >= 11 {
		return key[:11]
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
