package main

import (
	"context"

	_ "github.com/aknur111/blog-web-site/internal/domain/common"
	_ "github.com/aknur111/blog-web-site/internal/domain/post"
	_ "github.com/aknur111/blog-web-site/internal/domain/tag"
	_ "github.com/aknur111/blog-web-site/internal/domain/user"

	"github.com/aknur111/blog-web-site/internal/pkg/config"
	"github.com/aknur111/blog-web-site/internal/pkg/registry"
	"github.com/aknur111/blog-web-site/pkg/database"
	"github.com/aknur111/blog-web-site/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 创建所有模块声明的索引，失败时退出码非 0
// 服务启动时也会尝试建索引，但只记录警告
func main() {
	if err := config.LoadConfig(); err != nil {
		panic(err)
	}
	cfg := config.GlobalConfig

	if err := logger.InitLogger(cfg.App.Env, cfg.App.Debug); err != nil {
		panic(err)
	}
	defer logger.Sync()

	client, err := database.InitMongo(cfg.Mongo)
	if err != nil {
		logger.Log.Fatal("failed to create mongo client", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancel()
	defer database.Disconnect(context.Background(), client)

	if err := database.Ping(ctx, client); err != nil {
		logger.Log.Fatal("mongo is unreachable", zap.Error(err))
	}

	// 模块只在 Init 时创建仓储，路由注册到一个不启动的引擎
	gin.SetMode(gin.ReleaseMode)
	moduleCtx := &registry.ModuleContext{
		Client: client,
		DB:     client.Database(cfg.Mongo.Database),
		Router: gin.New(),
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("failed to init modules", zap.Error(err))
	}

	failed := 0
	registry.EnsureIndexes(ctx, func(name string, err error) {
		failed++
		logger.Log.Error("failed to create indexes", zap.String("module", name), zap.Error(err))
	})
	if failed > 0 {
		logger.Log.Fatal("index migration failed", zap.Int("modules", failed))
	}

	logger.Log.Info("index migration successful", zap.String("database", cfg.Mongo.Database))
}
