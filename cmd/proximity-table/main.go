package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"station-proximity/internal/config"
	"station-proximity/internal/logger"
	"station-proximity/internal/migrate"
	"station-proximity/internal/output"
	"station-proximity/internal/proximity"
	"station-proximity/internal/station"
	"station-proximity/internal/store"
	"station-proximity/internal/utils"
)

// 文档注释：批处理入口，读取站点 CSV，计算邻近表并写出
// 背景：输入路径取第一个命令行参数，其次 INPUT_PATH；输出路径与格式由 OUTPUT_PATH / OUTPUT_FORMAT 决定，
// OUTPUT_PATH=- 时写到标准输出。PG_ENABLE=true 时额外整表替换写入数据库。
// 约束：加载阶段任何缺列或非法数值都会中止运行，核心计算不会看到不完整的数据。
func main() {
	config.LoadDotEnv()
	l := logger.Setup()
	cfg := config.FromEnv()
	if len(os.Args) > 1 {
		cfg.InputPath = os.Args[1]
	}
	if cfg.InputPath == "" {
		l.Error("input_path_missing", "hint", "pass the station CSV as first argument or set INPUT_PATH")
		os.Exit(2)
	}
	format, err := output.ParseFormat(cfg.OutputFormat)
	if err != nil {
		l.Error("config_output_format", "err", err)
		os.Exit(2)
	}

	stations, err := station.LoadFile(cfg.InputPath)
	if err != nil {
		var verr *station.ValidationError
		if errors.As(err, &verr) {
			for _, is := range verr.Issues {
				l.Warn("invalid_value", "line", is.Line, "column", is.Column, "value", is.Value, "reason", is.Reason)
			}
		}
		l.Error("load_error", "path", cfg.InputPath, "err", err)
		os.Exit(1)
	}
	l.Info("load_ok", "path", cfg.InputPath, "stations", len(stations))

	res := proximity.Run(stations, cfg.Params)
	l.Info("run_ok", "stations", len(res.Records), "pairs", res.Pairs, "duration_ms", res.Duration.Milliseconds())

	if cfg.OutputPath == "-" {
		err = output.Write(os.Stdout, format, res.Records)
	} else {
		err = output.WriteFile(cfg.OutputPath, format, res.Records)
	}
	if err != nil {
		l.Error("write_error", "path", cfg.OutputPath, "err", err)
		os.Exit(1)
	}

	if cfg.PGEnable {
		if err := persist(res.Records, cfg.Params); err != nil {
			l.Error("persist_error", "err", err)
			os.Exit(1)
		}
		l.Info("persist_ok", "rows", len(res.Records))
	}

	if cfg.OutputPath != "-" {
		printSummary(res, cfg)
	}
}

func persist(records []station.Record, p proximity.Params) error {
	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		return err
	}
	defer db.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	if err := migrate.EnsureSchema(ctx, db); err != nil {
		return err
	}
	return store.AttachDB(db).ReplaceTable(ctx, records, p)
}

func printSummary(res proximity.Result, cfg config.Config) {
	withRange, withElev := 0, 0
	for _, r := range res.Records {
		if len(r.RangeMatches) > 0 {
			withRange++
		}
		if len(r.ElevationMatches) > 0 {
			withElev++
		}
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendRows([]table.Row{
		{"stations", len(res.Records)},
		{"pairs", res.Pairs},
		{fmt.Sprintf("with neighbours <= %g km", cfg.Params.MaxDistanceKm), withRange},
		{fmt.Sprintf("with elevation match +/- %g", cfg.Params.Tolerance), withElev},
		{"output", cfg.OutputPath},
	})
	fmt.Println(tw.Render())
}
