package proximity

import (
	"time"

	"station-proximity/internal/logger"
	"station-proximity/internal/metrics"
	"station-proximity/internal/station"
)

// 默认阈值：高程容差与最大距离（千米）
const (
	DefaultTolerance     = 100.0
	DefaultMaxDistanceKm = 100.0
)

// Params：一次运行的可调参数
type Params struct {
	Tolerance     float64 `json:"tolerance"`
	MaxDistanceKm float64 `json:"max_distance_km"`
	// Workers 仅影响距离矩阵的构建方式，不影响结果
	Workers int `json:"-"`
}

func DefaultParams() Params {
	return Params{Tolerance: DefaultTolerance, MaxDistanceKm: DefaultMaxDistanceKm, Workers: 1}
}

// Result：输出表及运行统计
type Result struct {
	Records  []station.Record
	Pairs    int
	Duration time.Duration
}

// Run：距离矩阵 -> 高程匹配 -> 组装结果表
// 约束：输入须已通过加载校验，站名唯一（结果按站名索引，重名站互不列出）；0 或 1 个站时输出对应数量的空名单记录
func Run(stations []station.Station, p Params) Result {
	begin := time.Now()
	m := BuildMatrixParallel(stations, p.Workers)
	logger.L().Debug("matrix_built", "stations", m.Len(), "pairs", m.Pairs(), "workers", p.Workers)
	em := MatchElevation(stations, p.Tolerance)
	records := Assemble(stations, m, em, p.MaxDistanceKm)
	res := Result{Records: records, Pairs: m.Pairs(), Duration: time.Since(begin)}

	metrics.RunsTotal.Inc()
	metrics.StationsTotal.Add(float64(len(stations)))
	metrics.PairsTotal.Add(float64(res.Pairs))
	metrics.RunDurationMs.Observe(float64(res.Duration.Milliseconds()))
	logger.L().Debug("run_done", "stations", len(stations), "tolerance", p.Tolerance, "max_distance_km", p.MaxDistanceKm, "duration_ms", res.Duration.Milliseconds())
	return res
}
