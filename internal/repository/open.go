package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/config"
)

// Open 根据配置创建排班存储，启用 redis 时在外层加上读缓存
// 返回的 cleanup 负责关闭数据库连接池和 redis 客户端
func Open(cfg *config.Config) (ScheduleStore, func(), error) {
	var (
		store   ScheduleStore
		closers []func()
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Store.Driver {
	case "postgres":
		dbpool, err := sql.Open("pgx", cfg.Database.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("无法创建数据库连接池: %w", err)
		}
		closers = append(closers, func() { dbpool.Close() })

		dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
		defer cancel()

		// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
		if err := dbpool.PingContext(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("无法连接到数据库: %w", err)
		}

		repo := NewRepository(cfg, dbpool)
		if err := repo.EnsureSchema(); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("无法创建数据表: %w", err)
		}
		store = repo
	default:
		fileStore, err := NewFileStore(cfg.Store.FilePath)
		if err != nil {
			return nil, nil, err
		}
		store = fileStore
	}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       0,
		})
		closers = append(closers, func() { rdb.Close() })

		// redis 不可用时只降级为直接读取底层存储
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.OperationTimeout)*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("无法连接到 redis，缓存暂不可用", "error", err)
		}

		store = NewCachedStore(
			store,
			rdb,
			time.Duration(cfg.Redis.ScheduleTTL)*time.Second,
			time.Duration(cfg.Redis.OperationTimeout)*time.Second,
		)
	}

	return store, cleanup, nil
}
