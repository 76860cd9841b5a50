// 包 store：输出表在 PostgreSQL 中的读写
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"station-proximity/internal/logger"
	"station-proximity/internal/proximity"
	"station-proximity/internal/station"
)

// Store：持有连接池，提供输出表的整表替换与读取
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) DB() *sql.DB { return s.db }

// Snapshot：最近一次落库的结果表
type Snapshot struct {
	Records    []station.Record
	Params     proximity.Params
	ComputedAt time.Time
}

// ReplaceTable：在一个事务内清空并写入全部记录，读者只会看到完整的某一次结果
// 约束：ordinal 为输入顺序，读取时据此还原
func (s *Store) ReplaceTable(ctx context.Context, records []station.Record, p proximity.Params) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, "DELETE FROM _station_proximity"); err != nil {
		return fmt.Errorf("clear table: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO _station_proximity(ordinal, station_name, latitude, longitude, elevation, range_matches, elevation_matches, tolerance, max_distance_km, computed_at)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	now := time.Now().UTC()
	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i, r.Name, r.Latitude, r.Longitude, r.Elevation,
			pq.Array(r.RangeMatches), pq.Array(r.ElevationMatches), p.Tolerance, p.MaxDistanceKm, now); err != nil {
			return fmt.Errorf("insert %s: %w", r.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logger.L().Debug("store_table_replaced", "rows", len(records))
	return nil
}

// LatestTable：读取最近一次结果；表为空时返回 nil, nil
func (s *Store) LatestTable(ctx context.Context) (*Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT station_name, latitude, longitude, elevation, range_matches, elevation_matches, tolerance, max_distance_km, computed_at
        FROM _station_proximity ORDER BY ordinal`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var snap *Snapshot
	for rows.Next() {
		if snap == nil {
			snap = &Snapshot{}
		}
		var r station.Record
		rng := []string{}
		elev := []string{}
		if err := rows.Scan(&r.Name, &r.Latitude, &r.Longitude, &r.Elevation, (*pq.StringArray)(&rng), (*pq.StringArray)(&elev),
			&snap.Params.Tolerance, &snap.Params.MaxDistanceKm, &snap.ComputedAt); err != nil {
			return nil, err
		}
		r.RangeMatches = rng
		r.ElevationMatches = elev
		snap.Records = append(snap.Records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snap, nil
}
