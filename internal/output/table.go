package output

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"station-proximity/internal/station"
)

// RenderTable：控制台表格渲染，style 取 default|light|rounded|bold|double
func RenderTable(w io.Writer, records []station.Record, style string) error {
	tw := table.NewWriter()
	tw.SetStyle(tableStyle(style))
	hdr := make(table.Row, len(station.Columns))
	for i, c := range station.Columns {
		hdr[i] = c
	}
	tw.AppendHeader(hdr)
	for _, r := range records {
		tw.AppendRow(table.Row{
			r.Name,
			FormatFloat(r.Latitude),
			FormatFloat(r.Longitude),
			FormatFloat(r.Elevation),
			r.RangeField(),
			r.ElevationField(),
		})
	}
	_, err := io.WriteString(w, tw.Render()+"\n")
	return err
}

func tableStyle(name string) table.Style {
	switch strings.ToLower(name) {
	case "light":
		return table.StyleLight
	case "rounded":
		return table.StyleRounded
	case "bold":
		return table.StyleBold
	case "double":
		return table.StyleDouble
	}
	return table.StyleDefault
}
