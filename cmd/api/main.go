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

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/cache"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/controller"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/handler"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/notify"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/session"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/store"
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
	 * 创建班次存储
	 **********************************************/
	shiftStore, closeStore, err := store.Open(cfg)
	if err != nil {
		logger.Error("无法创建班次存储", "backend", cfg.Store.Backend, "error", err)
		return
	}
	defer closeStore()

	/**********************************************
	 * 创建会话存储
	 **********************************************/
	sessionTTL := time.Duration(cfg.Session.Expiration) * time.Second
	var sessions session.Store
	if cfg.Redis.Host == "" {
		logger.Info("未配置 redis，会话保存在内存中")
		sessions = session.NewMemoryStore(sessionTTL)
	} else {
		rdb := redis.NewClient(&redis.Options{
			Addr:         fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password:     cfg.Redis.Password,
			DB:           0,
			DialTimeout:  time.Duration(cfg.Redis.ConnectTimeout) * time.Second,
			ReadTimeout:  time.Duration(cfg.Redis.OperationTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Redis.OperationTimeout) * time.Second,
		})
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.ConnectTimeout)*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			logger.Error("无法连接到 redis", "error", err)
			return
		}
		sessions = session.NewRedisStore(rdb, sessionTTL)
	}

	/**********************************************
	 * 连接 rabbitmq
	 **********************************************/
	opts := []controller.Option{}
	if cfg.RabbitMQ.DSN == "" {
		logger.Info("未配置 rabbitmq，不发送班次通知")
	} else {
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
		if _, err := notify.DeclareQueue(ch); err != nil {
			logger.Error("无法声明队列", "error", err)
			return
		}

		publisher := notify.NewPublisher(ch, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)
		opts = append(opts, controller.WithNotifier(publisher, cfg.Email.NotifyTo))
	}

	/**********************************************
	 * 创建 controller 并加载班次
	 **********************************************/
	ctrl, err := controller.New(shiftStore, cache.New(shiftStore), cfg.Admin.PIN, opts...)
	if err != nil {
		logger.Error("无法创建 controller", "error", err)
		return
	}

	// 加载失败不退出，页面会显示加载失败，可以稍后手动重新加载
	if err := ctrl.Load(context.Background()); err == nil {
		logger.Info("已加载班次", "count", ctrl.Cache().Len())
	}

	/**********************************************
	 * 创建 handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, ctrl, sessions)
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
