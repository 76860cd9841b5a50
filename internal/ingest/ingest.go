// 包 ingest：从文件或 HTTP 源读取站点表，完整重算邻近表并整表落库
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"station-proximity/internal/logger"
	"station-proximity/internal/proximity"
	"station-proximity/internal/station"
	"station-proximity/internal/store"
)

// Open：src 以 http:// 或 https:// 开头时发起 GET，否则按本地路径打开
// 约束：非 200 响应视为错误；调用方负责关闭返回值
func Open(ctx context.Context, src string) (io.ReadCloser, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return os.Open(src)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %d", src, resp.StatusCode)
	}
	return resp.Body, nil
}

// RunOnce：加载、重算，并在 st 非 nil 时整表替换
// 背景：每次都是全量重算，不做增量；加载失败时不触碰已有结果
func RunOnce(ctx context.Context, src string, p proximity.Params, st *store.Store) (proximity.Result, error) {
	l := logger.L()
	l.Info("ingest_start", "src", src)
	rc, err := Open(ctx, src)
	if err != nil {
		return proximity.Result{}, err
	}
	defer rc.Close()
	stations, err := station.Load(rc)
	if err != nil {
		return proximity.Result{}, err
	}
	res := proximity.Run(stations, p)
	if st != nil {
		tctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := st.ReplaceTable(tctx, res.Records, p); err != nil {
			return res, fmt.Errorf("persist: %w", err)
		}
	}
	l.Info("ingest_done", "stations", len(res.Records), "duration_ms", res.Duration.Milliseconds())
	return res, nil
}
