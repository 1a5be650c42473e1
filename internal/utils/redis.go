package utils

import (
	"context"
	"strconv"
	"time"

	"statemap/internal/logger"

	"github.com/redis/go-redis/v9"
)

// OpenRedisFromEnv：按 REDIS_HOST/PORT/PASS/DB 打开客户端并 Ping
// 约束：REDIS_DB 解析失败回退到 0；Ping 失败返回 nil，调用方按"缓存关闭"处理
func OpenRedisFromEnv(ctx context.Context) *redis.Client {
	addr := env("REDIS_HOST", "127.0.0.1") + ":" + env("REDIS_PORT", "6379")
	db := 0
	if n, err := strconv.Atoi(env("REDIS_DB", "0")); err == nil && n >= 0 {
		db = n
	}
	logger.L().Debug("redis_env", "addr", addr, "db", db)
	rc := redis.NewClient(&redis.Options{Addr: addr, Password: env("REDIS_PASS", ""), DB: db})
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pctx).Err(); err != nil {
		logger.L().Error("redis_ping_error", "err", err)
		_ = rc.Close()
		return nil
	}
	logger.L().Info("redis_ping_ok", "addr", addr)
	return rc
}
