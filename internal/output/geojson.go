package output

import (
	"encoding/json"
	"io"

	"github.com/paulmach/orb/geojson"

	"station-proximity/internal/station"
)

// FeatureCollection：每站一个 Point 要素，属性包含原始字段与两个名单
func FeatureCollection(records []station.Record) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range records {
		f := geojson.NewFeature(r.Point())
		f.ID = r.Name
		f.Properties["station_name"] = r.Name
		f.Properties["elevation"] = r.Elevation
		f.Properties["range"] = r.RangeMatches
		f.Properties["elevation_matches"] = r.ElevationMatches
		fc.Append(f)
	}
	return fc
}

func WriteGeoJSON(w io.Writer, records []station.Record) error {
	b, err := json.Marshal(FeatureCollection(records))
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
