// 包 station：站点与输出记录的数据结构，以及站点表的加载与校验
package station

import (
	"strings"

	"github.com/paulmach/orb"
)

// Station：一次运行内只读的测站记录
// 约束：Name 在站点集合内唯一；经纬度单位为度，高程单位与容差一致
type Station struct {
	Name      string  `json:"station_name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
}

// Point：转换为 orb.Point（经度在前）
func (s Station) Point() orb.Point { return orb.Point{s.Longitude, s.Latitude} }

// ListSep：Range/Elevation 字段的名称分隔符
const ListSep = "; "

// Record：输出表的一行，原始属性加两个派生名单
// 背景：名单按站名升序排列，保证多次运行输出一致；不包含自身
type Record struct {
	Station
	RangeMatches     []string `json:"range"`
	ElevationMatches []string `json:"elevation_matches"`
}

// RangeField：距离名单拼接后的字段值，无匹配时为空串
func (r Record) RangeField() string { return strings.Join(r.RangeMatches, ListSep) }

// ElevationField：高程名单拼接后的字段值
func (r Record) ElevationField() string { return strings.Join(r.ElevationMatches, ListSep) }

// Columns：输出表列顺序
var Columns = []string{"station_name", "latitude", "longitude", "elevation", "Range", "Elevation"}
