package utils

import (
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"

	"station-proximity/internal/logger"
)

// RedisOptionsFromEnv：REDIS_HOST/REDIS_PORT/REDIS_PASS/REDIS_DB
// 约束：REDIS_DB 解析失败或为负时回退到 0
func RedisOptionsFromEnv() *redis.Options {
	addr := envOr("REDIS_HOST", "127.0.0.1") + ":" + envOr("REDIS_PORT", "6379")
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			db = n
		}
	}
	return &redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASS"), DB: db}
}

// OpenRedisFromEnv：按环境变量创建客户端，不做连通性检查
func OpenRedisFromEnv() *redis.Client {
	opts := RedisOptionsFromEnv()
	logger.L().Debug("redis_env", "addr", opts.Addr, "db", opts.DB)
	return redis.NewClient(opts)
}
