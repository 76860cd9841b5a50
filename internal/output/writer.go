package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"station-proximity/internal/station"
)

const (
	FormatCSV     = "csv"
	FormatGeoJSON = "geojson"
	FormatTable   = "table"
)

// ParseFormat：格式名大小写不敏感，空值视为 csv
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatGeoJSON:
		return FormatGeoJSON, nil
	case FormatTable:
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Write：按格式写到 w
func Write(w io.Writer, format string, records []station.Record) error {
	switch format {
	case FormatGeoJSON:
		return WriteGeoJSON(w, records)
	case FormatTable:
		return RenderTable(w, records, "light")
	default:
		return WriteCSV(w, records)
	}
}

// WriteFile：写入到路径；先写临时文件再改名，失败时不留下半截输出
func WriteFile(path, format string, records []station.Record) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := Write(bw, format, records); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
