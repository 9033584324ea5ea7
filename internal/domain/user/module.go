package user

import (
	"context"

	"github.com/aknur111/blog-web-site/internal/domain/user/handler"
	"github.com/aknur111/blog-web-site/internal/domain/user/repository"
	"github.com/aknur111/blog-web-site/internal/domain/user/service"
	"github.com/aknur111/blog-web-site/internal/pkg/middleware"
	"github.com/aknur111/blog-web-site/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// UserModule 用户模块
type UserModule struct {
	repo repository.UserRepository
}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	// 其他模块依赖它提供的 ctx.Auth
	return 1
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	m.repo = repository.NewUserRepository(ctx.DB)
	userService := service.NewUserService(m.repo)
	userHandler := handler.NewUserHandler(userService)

	// 2. 对外暴露认证中间件
	ctx.Auth = middleware.AuthMiddleware(userService)

	// 3. 路由注册
	setupRoutes(ctx.Router, userHandler, ctx.Auth)

	return nil
}

// EnsureIndexes 创建 users 集合索引
func (m *UserModule) EnsureIndexes(ctx context.Context) error {
	return m.repo.EnsureIndexes(ctx)
}

func setupRoutes(r *gin.Engine, h *handler.UserHandler, auth gin.HandlerFunc) {
	// 公开路由
	r.POST("/register", h.Register)

	userGroup := r.Group("/users")
	{
		userGroup.GET("", h.GetUsers)
		userGroup.GET("/:id", h.GetUser)
		userGroup.PUT("/:id", auth, h.UpdateUser)
		userGroup.DELETE("/:id", auth, h.DeleteUser)
	}
}
