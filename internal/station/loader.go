package station

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"station-proximity/internal/logger"
)

// RequiredColumns：输入表必须包含的列
var RequiredColumns = []string{"station_name", "latitude", "longitude", "elevation"}

var ErrMissingColumns = errors.New("csv must contain columns: " + strings.Join(RequiredColumns, ", "))

// Issue：单个单元格或行的问题；Line 为 CSV 物理行号（表头为第 1 行）
type Issue struct {
	Line   int    `json:"line"`
	Column string `json:"column"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d: %s=%q: %s", i.Line, i.Column, i.Value, i.Reason)
}

// ValidationError：加载阶段收集到的全部问题
// 背景：缺失或非数值的数据不进入距离计算，整批拒绝并一次性报告
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return "invalid station data: " + e.Issues[0].String()
	}
	return fmt.Sprintf("invalid station data: %d issues, first: %s", len(e.Issues), e.Issues[0].String())
}

// LoadFile：从磁盘读取站点 CSV
func LoadFile(path string) ([]Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load：解析带表头的逗号分隔站点表
// 背景：列名去除首尾空白后匹配，允许额外列与任意列顺序
// 约束：缺列返回 ErrMissingColumns；其余问题汇总为 *ValidationError；空表返回空集合
func Load(r io.Reader) ([]Station, error) {
	l := logger.L()
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w (empty input)", ErrMissingColumns)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		l.Error("load_missing_columns", "missing", missing)
		return nil, fmt.Errorf("%w (missing %s)", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var out []Station
	var issues []Issue
	seen := make(map[string]int)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		cell := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		var s Station
		ok := true
		s.Name = cell("station_name")
		if s.Name == "" {
			issues = append(issues, Issue{Line: line, Column: "station_name", Reason: "empty name"})
			ok = false
		} else if first, dup := seen[s.Name]; dup {
			issues = append(issues, Issue{Line: line, Column: "station_name", Value: s.Name, Reason: fmt.Sprintf("duplicate of line %d", first)})
			ok = false
		} else {
			seen[s.Name] = line
		}
		num := func(col string, lo, hi float64) float64 {
			raw := cell(col)
			v, err := strconv.ParseFloat(raw, 64)
			switch {
			case raw == "":
				issues = append(issues, Issue{Line: line, Column: col, Reason: "missing value"})
			case err != nil || math.IsNaN(v) || math.IsInf(v, 0):
				issues = append(issues, Issue{Line: line, Column: col, Value: raw, Reason: "not a number"})
			case v < lo || v > hi:
				issues = append(issues, Issue{Line: line, Column: col, Value: raw, Reason: fmt.Sprintf("out of range [%g, %g]", lo, hi)})
			default:
				return v
			}
			ok = false
			return 0
		}
		s.Latitude = num("latitude", -90, 90)
		s.Longitude = num("longitude", -180, 180)
		s.Elevation = num("elevation", math.Inf(-1), math.Inf(1))
		if ok {
			out = append(out, s)
		}
	}
	if len(issues) > 0 {
		l.Warn("load_invalid_values", "issues", len(issues), "first", issues[0].String())
		return nil, &ValidationError{Issues: issues}
	}
	l.Debug("load_done", "stations", len(out))
	return out, nil
}
