package common

import (
	"context"

	commonHandler "github.com/aknur111/blog-web-site/internal/pkg/common"
	"github.com/aknur111/blog-web-site/internal/pkg/registry"
	"github.com/aknur111/blog-web-site/pkg/database"

	"github.com/gin-gonic/gin"
)

// CommonModule 通用功能模块
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	client := ctx.Client
	setupRoutes(ctx.Router, func(c context.Context) error {
		return database.Ping(c, client)
	})
	return nil
}

func setupRoutes(r *gin.Engine, ping commonHandler.PingFunc) {
	r.GET("/health", commonHandler.Health(ping))
	r.GET("/metrics", commonHandler.Metrics())
}
