// 包 config：从环境变量读取运行参数；命令行工具与 HTTP 服务共用
package config

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"station-proximity/internal/logger"
	"station-proximity/internal/proximity"
)

// Config：一次进程的配置快照
type Config struct {
	Params proximity.Params

	InputPath    string
	OutputPath   string
	OutputFormat string

	PGEnable      bool
	RedisEnable   bool
	CacheTTLSec   int
	CacheLRUSize  int
	IngestSource  string
	IngestHour    int
	IngestTZ      string
	Addr          string
	APIBase       string
	MaxUploadSize int64
}

// LoadDotEnv：依次加载 .env 与 data/env/.env，文件不存在时忽略
// 约束：已存在的进程环境变量优先，不会被覆盖
func LoadDotEnv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
}

// FromEnv：读取全部配置项，非法数值回退到默认值
func FromEnv() Config {
	c := Config{
		Params: proximity.Params{
			Tolerance:     envFloat("ELEVATION_TOLERANCE", proximity.DefaultTolerance),
			MaxDistanceKm: envFloat("MAX_DISTANCE_KM", proximity.DefaultMaxDistanceKm),
			Workers:       envInt("WORKERS", 1),
		},
		InputPath:     os.Getenv("INPUT_PATH"),
		OutputPath:    envStr("OUTPUT_PATH", "station_proximity_table.csv"),
		OutputFormat:  envStr("OUTPUT_FORMAT", "csv"),
		PGEnable:      os.Getenv("PG_ENABLE") == "true",
		RedisEnable:   os.Getenv("REDIS_ENABLE") == "true",
		CacheTTLSec:   envInt("CACHE_TTL_SECONDS", 3600),
		CacheLRUSize:  envInt("CACHE_LRU_SIZE", 64),
		IngestSource:  os.Getenv("INGEST_SOURCE"),
		IngestHour:    envInt("INGEST_HOUR", 3),
		IngestTZ:      envStr("INGEST_TZ", "UTC"),
		Addr:          envStr("ADDR", ":8080"),
		APIBase:       strings.TrimSuffix(envStr("API_BASE", "/api"), "/"),
		MaxUploadSize: int64(envInt("MAX_UPLOAD_BYTES", 8<<20)),
	}
	if c.Params.Workers < 1 {
		c.Params.Workers = 1
	}
	if c.IngestHour < 0 || c.IngestHour > 23 {
		c.IngestHour = 3
	}
	return c
}

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		logger.L().Debug("config_invalid_int", "key", key, "value", v)
		return def
	}
	return n
}

// envFloat：拒绝 NaN/Inf，避免阈值比较恒为 false
func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		logger.L().Debug("config_invalid_float", "key", key, "value", v)
		return def
	}
	return f
}
