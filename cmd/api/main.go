package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/exporter"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/handler"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/notify"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/renderer"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	/**********************************************
	 * 创建排班存储
	 **********************************************/
	store, cleanup, err := repository.Open(cfg)
	if err != nil {
		logger.Error("无法创建排班存储", "error", err)
		return
	}
	defer cleanup()
	logger.Info("排班存储已就绪", "driver", cfg.Store.Driver, "redis", cfg.Redis.Enabled)

	/**********************************************
	 * 创建导出文件存储
	 **********************************************/
	var artifacts exporter.ArtifactStore
	switch cfg.Artifacts.Driver {
	case "minio":
		client, err := minio.New(cfg.Artifacts.Minio.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Artifacts.Minio.AccessKey, cfg.Artifacts.Minio.SecretKey, ""),
			Secure: cfg.Artifacts.Minio.UseSSL,
		})
		if err != nil {
			logger.Error("无法创建 minio 客户端", "error", err)
			return
		}

		minioArtifacts := exporter.NewMinioArtifacts(client, cfg.Artifacts.Minio.Bucket, time.Duration(cfg.Artifacts.Minio.Timeout)*time.Second)
		if err := minioArtifacts.EnsureBucket(); err != nil {
			logger.Error("无法创建 minio 存储桶", "bucket", cfg.Artifacts.Minio.Bucket, "error", err)
			return
		}
		artifacts = minioArtifacts
	default:
		localArtifacts, err := exporter.NewLocalArtifacts(cfg.Artifacts.Dir)
		if err != nil {
			logger.Error("无法创建导出目录", "dir", cfg.Artifacts.Dir, "error", err)
			return
		}
		artifacts = localArtifacts
	}

	/**********************************************
	 * 连接 rabbitmq（可选）
	 **********************************************/
	var notifier notify.Notifier = notify.Noop{}
	if cfg.RabbitMQ.DSN != "" {
		conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
		if err != nil {
			logger.Error("无法连接到 rabbitmq", "error", err)
			return
		}
		defer conn.Close()

		// 建立通道
		ch, err := conn.Channel()
		if err != nil {
			logger.Error("无法建立通道", "error", err)
			return
		}
		defer ch.Close()

		// 声明队列
		_, err = ch.QueueDeclare(
			cfg.RabbitMQ.Queue,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			logger.Error("无法声明队列", "error", err)
			return
		}

		notifier = notify.NewAMQPNotifier(ch, cfg.RabbitMQ.Queue, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second, logger)
	} else {
		logger.Info("未配置 rabbitmq，不发送通知")
	}

	/**********************************************
	 * 创建指标、渲染器和导出器
	 **********************************************/
	m, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Error("无法注册指标", "error", err)
		return
	}

	r := renderer.New(calendar.NewConverter(calendar.DefaultNames), domain.DefaultShifts, logger)
	exp := exporter.New(store, r, artifacts, cfg.Schedule.Workplaces, m, logger)

	/**********************************************
	 * 创建 handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, store, exp, notifier, m, prometheus.DefaultGatherer)
	if err != nil {
		logger.Error("无法创建 handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * 启动 HTTP 服务器
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("正在启动服务器...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("无法启动服务器", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("关闭服务器失败", slog.String("error", err.Error()))
	}
	logger.Info("服务器已成功关闭")
}
