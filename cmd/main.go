// 程序入口：HTTP 服务，仅负责读取配置、初始化依赖并启动；路由在 internal/api
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"station-proximity/internal/api"
	"station-proximity/internal/cache"
	"station-proximity/internal/config"
	"station-proximity/internal/ingest"
	"station-proximity/internal/logger"
	"station-proximity/internal/metrics"
	"station-proximity/internal/middleware"
	"station-proximity/internal/migrate"
	"station-proximity/internal/store"
	"station-proximity/internal/utils"
)

func main() {
	config.LoadDotEnv()
	l := logger.Setup()
	cfg := config.FromEnv()
	l.Debug("config_loaded", "api_base", cfg.APIBase, "tolerance", cfg.Params.Tolerance, "max_distance_km", cfg.Params.MaxDistanceKm, "workers", cfg.Params.Workers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 数据库可选：未启用时 /proximity/latest 返回 404，计算接口不受影响
	var st *store.Store
	if cfg.PGEnable {
		db, err := utils.OpenPostgresFromEnv()
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := pingAndMigrate(ctx, db); err != nil {
			l.Error("db_init_error", "err", err)
			os.Exit(1)
		}
		st = store.AttachDB(db)
		l.Info("db_ready")
	} else {
		l.Info("db_disabled")
	}

	var rc *redis.Client
	if cfg.RedisEnable {
		rc = utils.OpenRedisFromEnv()
		defer rc.Close()
		if err := rc.Ping(ctx).Err(); err != nil {
			// 缓存不可用时仍可计算，只记录错误
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
	} else {
		l.Info("redis_disabled")
	}

	// 定时全量重算：需要数据库保存结果
	if cfg.IngestSource != "" {
		if st == nil {
			l.Warn("ingest_skipped", "reason", "PG_ENABLE is not true")
		} else {
			loc, err := time.LoadLocation(cfg.IngestTZ)
			if err != nil {
				l.Warn("ingest_tz_invalid", "tz", cfg.IngestTZ, "err", err)
				loc = time.UTC
			}
			ingest.StartDaily(ctx, cfg.IngestSource, cfg.Params, st, loc, cfg.IngestHour)
			l.Info("ingest_scheduled", "src", cfg.IngestSource, "hour", cfg.IngestHour, "tz", loc.String())
		}
	}

	apiMux := api.BuildRoutes(api.Options{
		Store:         st,
		Cache:         cache.New(rc, cfg.CacheLRUSize, time.Duration(cfg.CacheTTLSec)*time.Second),
		Defaults:      cfg.Params,
		MaxUploadSize: cfg.MaxUploadSize,
	})
	mux := http.NewServeMux()
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, middleware.Wrap(apiMux)))
	mux.Handle(cfg.APIBase+"/metrics", metrics.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})

	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           logger.AccessMiddleware(l)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		l.Info("shutting_down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()
	l.Info("listening", "addr", cfg.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("listen_error", "err", err)
		os.Exit(1)
	}
}

func pingAndMigrate(ctx context.Context, db *sql.DB) error {
	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		return err
	}
	return migrate.EnsureSchema(pctx, db)
}
