package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/aknur111/blog-web-site/internal/domain/common"
	_ "github.com/aknur111/blog-web-site/internal/domain/post"
	_ "github.com/aknur111/blog-web-site/internal/domain/tag"
	_ "github.com/aknur111/blog-web-site/internal/domain/user"

	"github.com/aknur111/blog-web-site/internal/pkg/config"
	"github.com/aknur111/blog-web-site/internal/pkg/middleware"
	"github.com/aknur111/blog-web-site/internal/pkg/registry"
	"github.com/aknur111/blog-web-site/pkg/database"
	"github.com/aknur111/blog-web-site/pkg/logger"
	"github.com/aknur111/blog-web-site/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. 配置与日志
	if err := config.LoadConfig(); err != nil {
		panic(err)
	}
	cfg := config.GlobalConfig

	if err := logger.InitLogger(cfg.App.Env, cfg.App.Debug); err != nil {
		panic(err)
	}
	defer logger.Sync()

	// 2. 存储
	client, err := database.InitMongo(cfg.Mongo)
	if err != nil {
		logger.Log.Fatal("failed to create mongo client", zap.Error(err))
	}
	db := client.Database(cfg.Mongo.Database)

	startupCtx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	if err := database.Ping(startupCtx, client); err != nil {
		logger.Log.Warn("mongo ping failed, continuing", zap.Error(err))
	}
	cancel()

	// 3. 路由与中间件
	gin.SetMode(cfg.Server.Mode)
	collector := metrics.GetGlobalCollector()

	r := gin.New()
	r.Use(
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.MetricsMiddleware(collector),
		middleware.RecoveryMiddleware(collector),
		cors.New(corsConfig(cfg.CORS)),
	)

	// 4. 模块初始化
	moduleCtx := &registry.ModuleContext{
		Client: client,
		DB:     db,
		Router: r,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("failed to init modules", zap.Error(err))
	}

	indexCtx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	registry.EnsureIndexes(indexCtx, func(name string, err error) {
		logger.Log.Warn("failed to create indexes", zap.String("module", name), zap.Error(err))
	})
	cancel()

	// 5. 启动与优雅退出
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("server forced to shutdown", zap.Error(err))
	}
	database.Disconnect(ctx, client)

	logger.Log.Info("server exited")
}

// corsConfig 默认允许所有来源
func corsConfig(c config.CORSConfig) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.TraceHeader},
		ExposeHeaders: []string{middleware.TraceHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(c.AllowOrigins) == 0 || (len(c.AllowOrigins) == 1 && c.AllowOrigins[0] == "*") {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = c.AllowOrigins
	}
	return cc
}
