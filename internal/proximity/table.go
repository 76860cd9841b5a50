package proximity

import "station-proximity/internal/station"

// Assemble：按输入顺序为每个站生成一行输出
// 背景：Range 取距离矩阵中不超过 maxKm 的其他站；Elevation 直接取高程匹配结果
// 约束：两个名单都按站名升序；无匹配时为空切片，拼接后为空串
func Assemble(stations []station.Station, m *Matrix, em ElevationMatches, maxKm float64) []station.Record {
	out := make([]station.Record, 0, len(stations))
	for _, s := range stations {
		elev := make([]string, len(em[s.Name]))
		copy(elev, em[s.Name])
		out = append(out, station.Record{
			Station:          s,
			RangeMatches:     m.Within(s.Name, maxKm),
			ElevationMatches: elev,
		})
	}
	return out
}
