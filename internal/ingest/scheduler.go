package ingest

import (
	"context"
	"time"

	"station-proximity/internal/logger"
	"station-proximity/internal/proximity"
	"station-proximity/internal/store"
)

// nextRunAt：now 之后最近一次 hour 整点（loc 时区）
func nextRunAt(now time.Time, loc *time.Location, hour int) time.Time {
	now = now.In(loc)
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// StartDaily：启动时先跑一次，之后每天 hour 点全量重算
// 背景：测站清单由外部系统维护并定期更新；错误只记录日志，调度继续
// 约束：运行于后台协程，ctx 取消后退出
func StartDaily(ctx context.Context, src string, p proximity.Params, st *store.Store, loc *time.Location, hour int) {
	l := logger.L()
	go func() {
		for {
			if _, err := RunOnce(ctx, src, p, st); err != nil {
				l.Error("ingest_error", "src", src, "err", err)
			}
			next := nextRunAt(time.Now(), loc, hour)
			l.Debug("ingest_next", "at", next)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Until(next)):
			}
		}
	}()
}
