// 包 api：集中注册 HTTP API 路由，主入口挂载到 API_BASE 前缀下
package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"station-proximity/internal/cache"
	"station-proximity/internal/logger"
	"station-proximity/internal/metrics"
	"station-proximity/internal/output"
	"station-proximity/internal/proximity"
	"station-proximity/internal/station"
	"station-proximity/internal/store"
)

// Options：路由依赖；Store 与 Cache 可为 nil
type Options struct {
	Store         *store.Store
	Cache         *cache.Cache
	Defaults      proximity.Params
	MaxUploadSize int64
}

type tableResponse struct {
	Params   proximity.Params `json:"params"`
	Stations int              `json:"stations"`
	Records  []station.Record `json:"records"`
}

type errorResponse struct {
	Error  string          `json:"error"`
	Issues []station.Issue `json:"issues,omitempty"`
}

// BuildRoutes：独立 ServeMux，路径不含 API_BASE
func BuildRoutes(o Options) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/proximity", instrument("proximity", http.HandlerFunc(o.handleCompute)))
	mux.Handle("/proximity/latest", instrument("proximity_latest", http.HandlerFunc(o.handleLatest)))
	return mux
}

// handleCompute：请求体为站点 CSV；query 可覆盖 tolerance / max_distance，format 取 json|csv|geojson
// 约束：persist=true 且启用数据库时，结果整表替换落库
func (o Options) handleCompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	q := r.URL.Query()
	p, err := paramsFromQuery(o.Defaults, q.Get("tolerance"), q.Get("max_distance"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	format, ok := responseFormat(q.Get("format"))
	if !ok {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "unknown format " + strconv.Quote(format)})
		return
	}

	body := r.Body
	if o.MaxUploadSize > 0 {
		body = http.MaxBytesReader(w, r.Body, o.MaxUploadSize)
	}
	stations, err := station.Load(body)
	if err != nil {
		var verr *station.ValidationError
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			writeError(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "upload exceeds " + strconv.FormatInt(tooBig.Limit, 10) + " bytes"})
		case errors.As(err, &verr):
			metrics.ValidationFailuresTotal.Inc()
			writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid station data", Issues: verr.Issues})
		default:
			metrics.ValidationFailuresTotal.Inc()
			writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return
	}

	ctx := r.Context()
	key := cache.Key(stations, p)
	records, hit := o.Cache.Get(ctx, key)
	if hit {
		w.Header().Set("x-cache", "HIT")
	} else {
		w.Header().Set("x-cache", "MISS")
		records = proximity.Run(stations, p).Records
		if err := o.Cache.Set(ctx, key, records); err != nil {
			logger.L().Warn("cache_set_error", "err", err)
		}
	}
	if q.Get("persist") == "true" && o.Store != nil {
		if err := o.Store.ReplaceTable(ctx, records, p); err != nil {
			logger.L().Error("store_replace_error", "err", err)
			writeError(w, http.StatusInternalServerError, errorResponse{Error: "persist failed"})
			return
		}
	}
	writeTable(w, format, p, records)
}

func (o Options) handleLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	format, ok := responseFormat(r.URL.Query().Get("format"))
	if !ok {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "unknown format " + strconv.Quote(format)})
		return
	}
	if o.Store == nil {
		writeError(w, http.StatusNotFound, errorResponse{Error: "store disabled"})
		return
	}
	snap, err := o.Store.LatestTable(r.Context())
	if err != nil {
		logger.L().Error("store_read_error", "err", err)
		writeError(w, http.StatusInternalServerError, errorResponse{Error: "read failed"})
		return
	}
	if snap == nil {
		writeError(w, http.StatusNotFound, errorResponse{Error: "no table computed yet"})
		return
	}
	w.Header().Set("last-modified", snap.ComputedAt.UTC().Format(http.TimeFormat))
	writeTable(w, format, snap.Params, snap.Records)
}

// responseFormat：json（默认，记录数组）| csv | geojson，大小写不敏感
func responseFormat(s string) (string, bool) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", "json":
		return "json", true
	case output.FormatCSV, output.FormatGeoJSON:
		return f, true
	default:
		return f, false
	}
}

func paramsFromQuery(def proximity.Params, tol, maxKm string) (proximity.Params, error) {
	p := def
	if tol != "" {
		v, err := parseFinite(tol)
		if err != nil {
			return p, errors.New("invalid tolerance")
		}
		p.Tolerance = v
	}
	if maxKm != "" {
		v, err := parseFinite(maxKm)
		if err != nil {
			return p, errors.New("invalid max_distance")
		}
		p.MaxDistanceKm = v
	}
	return p, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not finite")
	}
	return v, nil
}

func writeTable(w http.ResponseWriter, format string, p proximity.Params, records []station.Record) {
	w.Header().Set("cache-control", "no-store")
	switch format {
	case output.FormatCSV:
		w.Header().Set("content-type", "text/csv; charset=utf-8")
		w.Header().Set("content-disposition", `attachment; filename="station_proximity_table.csv"`)
		_ = output.WriteCSV(w, records)
	case output.FormatGeoJSON:
		w.Header().Set("content-type", "application/geo+json")
		_ = output.WriteGeoJSON(w, records)
	default:
		if records == nil {
			records = []station.Record{}
		}
		w.Header().Set("content-type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(tableResponse{Params: p, Stations: len(records), Records: records})
	}
}

func writeError(w http.ResponseWriter, code int, e errorResponse) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(e)
}
