// 包 output：结果表的序列化（CSV / GeoJSON / 控制台表格）
package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"station-proximity/internal/station"
)

// FormatFloat：最短可往返的十进制表示，不使用科学计数法
func FormatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// WriteCSV：写出表头与每站一行，列顺序见 station.Columns
func WriteCSV(w io.Writer, records []station.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(station.Columns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Name,
			FormatFloat(r.Latitude),
			FormatFloat(r.Longitude),
			FormatFloat(r.Elevation),
			r.RangeField(),
			r.ElevationField(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
