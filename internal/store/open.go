// Package store 按配置创建班次行存储，api 和 seed 共用
package store

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/cache"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/repository"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/sheet"
)

// Open 返回配置的存储以及释放资源的函数
func Open(cfg *config.Config) (cache.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		return openPostgres(cfg)
	default:
		slog.Info("使用表格存储", "url", cfg.Store.URL)
		client := sheet.New(cfg.Store.URL, sheet.WithTimeout(time.Duration(cfg.Store.RequestTimeout)*time.Second))
		return client, func() {}, nil
	}
}

func openPostgres(cfg *config.Config) (cache.Store, func(), error) {
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		dbpool.Close()
		return nil, nil, err
	}

	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		dbpool.Close()
		return nil, nil, err
	}

	slog.Info("使用 postgres 存储")
	return repo, func() { dbpool.Close() }, nil
}
