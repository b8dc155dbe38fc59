package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/seed"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/store"
)

func main() {
	var n int
	var offset int
	var csvPath string

	flag.IntVar(&n, "n", 5, "要插入的随机班次数量")
	flag.IntVar(&offset, "month-offset", 0, "随机班次所在月份相对于本月的偏移")
	flag.StringVar(&csvPath, "csv", "", "从 CSV 文件导入班次，指定后忽略 -n")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建班次存储
	shiftStore, closeStore, err := store.Open(cfg)
	if err != nil {
		logger.Error("无法创建班次存储", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	ctx := context.Background()

	if csvPath != "" {
		file, err := os.Open(csvPath)
		if err != nil {
			logger.Error("打开文件失败", "path", csvPath, "error", err)
			return
		}
		defer file.Close()

		cnt, err := seed.SeedCSV(ctx, shiftStore, file)
		if err != nil {
			logger.Error("导入 CSV 失败", "imported", cnt, "error", err)
			return
		}
		logger.Info("导入班次成功", slog.Int("count", cnt))
		return
	}

	if n <= 0 {
		logger.Error("请输入合法的班次数量")
		return
	}

	base := calendar.MonthBase(time.Now(), offset)
	cnt := seed.SeedRandom(ctx, shiftStore, n, base)
	logger.Info("插入班次成功", slog.Int("count", cnt), slog.String("month", base.Format("2006-01")))
}
