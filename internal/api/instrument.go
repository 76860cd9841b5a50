package api

import (
	"net/http"
	"strconv"

	"station-proximity/internal/metrics"
)

type codeWriter struct {
	http.ResponseWriter
	code int
}

func (w *codeWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// instrument：按路由与状态码计数
func instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cw := &codeWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(cw, r)
		metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(cw.code)).Inc()
	})
}
