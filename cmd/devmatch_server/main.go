package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devmatch_server/internal/config"
	dao "devmatch_server/internal/dao/mysql"
	myredis "devmatch_server/internal/dao/redis"
	"devmatch_server/internal/gateway/websocket"
	"devmatch_server/internal/handler"
	"devmatch_server/internal/https_server"
	"devmatch_server/internal/infrastructure/logger"
	"devmatch_server/internal/infrastructure/mq"
	"devmatch_server/internal/service"
	"devmatch_server/internal/service/presence"
	"devmatch_server/pkg/util/jwt"
	"devmatch_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	if err := config.LoadConfig(); err != nil {
		log.Printf("load config failed, using defaults: %v", err)
	}
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化参数校验翻译器、JWT 和雪花算法
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("初始化翻译器失败", zap.Error(err))
	}
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry)
	snowflake.Init(conf.SnowflakeConfig.MachineID)

	// 4. 初始化数据库
	repos, err := dao.Init(&conf.MysqlConfig)
	if err != nil {
		zap.L().Fatal("数据库初始化失败", zap.Error(err))
	}
	zap.L().Info("数据库初始化成功")

	// 5. 初始化 Redis（可选）
	var cache myredis.AsyncCacheService
	var redisCache *myredis.RedisCache
	if conf.RedisConfig.Enable {
		redisCache, err = myredis.Init(&conf.RedisConfig)
		if err != nil {
			zap.L().Fatal("Redis 初始化失败", zap.Error(err))
		}
		cache = redisCache
		zap.L().Info("Redis 初始化成功")
	}

	// 6. 领域事件
	publisher := mq.NewPublisher(&conf.KafkaConfig)

	// 7. 初始化 Service 层 (依赖注入)
	registry := presence.NewRegistry()
	registry.SetListener(func(event presence.Event) {
		zap.L().Debug("presence event", zap.String("event", event.Event), zap.Any("data", event.Data))
	})
	svc := service.NewServices(service.Deps{
		Repos:     repos,
		Cache:     cache,
		Publisher: publisher,
		Registry:  registry,
		Feed:      conf.FeedConfig,
	})
	zap.L().Info("Service 层初始化成功")

	// 8. 初始化 WebSocket 网关和 HTTP 服务器
	gateway := websocket.NewGateway(svc.Conversation, svc.Presence, conf.WsConfig)
	engine := https_server.Init(handler.NewHandlers(svc, gateway), &conf.MainConfig)
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}

	go func() {
		zap.L().Info("服务器启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("server shutdown error", zap.Error(err))
	}
	if err := publisher.Close(); err != nil {
		zap.L().Error("close publisher error", zap.Error(err))
	}
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			zap.L().Error("close redis error", zap.Error(err))
		}
	}

	zap.L().Info("服务器已关闭")
	_ = zap.L().Sync()
}
