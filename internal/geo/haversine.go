// 包 geo：球面大圆距离计算，供站点两两距离矩阵使用
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusKm：球形地球半径（千米）
const EarthRadiusKm = 6371.0

// Haversine：计算两点（度）之间的大圆距离，返回千米
// 背景：纯函数，无错误分支；经纬度合法性由加载层保证
// 约束：输入相同点时返回 0；交换两点结果一致
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// Distance：orb.Point 版本（X 为经度，Y 为纬度）
func Distance(a, b orb.Point) float64 {
	return Haversine(a.Lat(), a.Lon(), b.Lat(), b.Lon())
}

func radians(d float64) float64 { return d * math.Pi / 180 }
