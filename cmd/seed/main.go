package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/repository"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var year int
	var fromMonth int
	var toMonth int
	var fillRatio float64
	var file string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机排班, 2: 从 JSON 文件导入排班)")
	flag.IntVar(&year, "year", 1403, "随机排班的伊历年份")
	flag.IntVar(&fromMonth, "from", 1, "随机排班的起始月份")
	flag.IntVar(&toMonth, "to", 12, "随机排班的结束月份")
	flag.Float64Var(&fillRatio, "fill", 0.7, "每个班次被填充的概率")
	flag.StringVar(&file, "file", "data/schedules.json", "要导入的排班文件")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建排班存储
	store, cleanup, err := repository.Open(cfg)
	if err != nil {
		logger.Error("无法创建排班存储", "error", err)
		return
	}
	defer cleanup()

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		cnt, err := seed.SeedRandomPeriods(store, year, fromMonth, toMonth, cfg.Schedule.Workplaces, cfg.Seed.Engineers, fillRatio)
		if err != nil {
			slog.Error("无法插入随机排班", slog.String("error", err.Error()))
		}
		slog.Info("插入随机排班成功", slog.Int("count", cnt))
	case 2:
		cnt, err := seed.ImportFile(store, file)
		if err != nil {
			slog.Error("无法导入排班文件", slog.String("file", file), slog.String("error", err.Error()))
		}
		slog.Info("导入排班成功", slog.Int("count", cnt))
	default:
		slog.Error("指定的操作非法")
	}
}
