package migrate

import (
	"context"
	"database/sql"

	"station-proximity/internal/logger"
)

// 背景：首次运行自动创建输出表；每次运行整表替换，只保留最近一次结果
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；名单以 TEXT[] 保存，保留排序
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _station_proximity (
            ordinal INT PRIMARY KEY,
            station_name TEXT NOT NULL,
            latitude DOUBLE PRECISION NOT NULL,
            longitude DOUBLE PRECISION NOT NULL,
            elevation DOUBLE PRECISION NOT NULL,
            range_matches TEXT[] NOT NULL DEFAULT '{}',
            elevation_matches TEXT[] NOT NULL DEFAULT '{}',
            tolerance DOUBLE PRECISION NOT NULL,
            max_distance_km DOUBLE PRECISION NOT NULL,
            computed_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_station_proximity_name ON _station_proximity(station_name)`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
