package proximity

import (
	"sort"

	"station-proximity/internal/station"
)

// ElevationMatches：站名 -> 高程落在本站区间内的其他站名（按站名升序）
type ElevationMatches map[string][]string

// MatchElevation：对每个站 s，收集高程位于 [e-tol, e+tol] 的其他站
// 背景：按站独立判定，不做对称化；A 包含 B 只取决于 B 是否落在 A 的区间
// 约束：不包含自身及同名站；无匹配时为空切片而非 nil
func MatchElevation(stations []station.Station, tolerance float64) ElevationMatches {
	order := make([]int, len(stations))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return stations[order[a]].Name < stations[order[b]].Name })

	out := make(ElevationMatches, len(stations))
	for i, s := range stations {
		lo, hi := s.Elevation-tolerance, s.Elevation+tolerance
		matches := make([]string, 0)
		for _, j := range order {
			if j == i || stations[j].Name == s.Name {
				continue
			}
			if e := stations[j].Elevation; e >= lo && e <= hi {
				matches = append(matches, stations[j].Name)
			}
		}
		out[s.Name] = matches
	}
	return out
}
