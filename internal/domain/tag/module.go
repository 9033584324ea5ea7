package tag

import (
	"context"
	"errors"

	"github.com/aknur111/blog-web-site/internal/domain/tag/handler"
	"github.com/aknur111/blog-web-site/internal/domain/tag/repository"
	"github.com/aknur111/blog-web-site/internal/domain/tag/service"
	"github.com/aknur111/blog-web-site/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// TagModule 标签目录
type TagModule struct {
	repo repository.TagRepository
}

func init() {
	registry.Register(&TagModule{})
}

func (m *TagModule) Name() string {
	return "tag"
}

func (m *TagModule) Priority() int {
	return 20
}

func (m *TagModule) Init(ctx *registry.ModuleContext) error {
	if ctx.Auth == nil {
		return errors.New("tag module requires the auth middleware")
	}

	m.repo = repository.NewTagRepository(ctx.DB)
	h := handler.NewTagHandler(service.NewTagService(m.repo))
	SetupRoutes(ctx.Router, ctx.Auth, h)
	return nil
}

func (m *TagModule) EnsureIndexes(ctx context.Context) error {
	return m.repo.EnsureIndexes(ctx)
}

func SetupRoutes(r *gin.Engine, auth gin.HandlerFunc, h *handler.TagHandler) {
	tags := r.Group("/tags")
	{
		tags.POST("", h.CreateTag)
		tags.GET("", h.ListTags)
		tags.GET("/:id", h.GetTag)
		tags.PUT("/:id", auth, h.UpdateTag)
		tags.DELETE("/:id", auth, h.DeleteTag)
	}
}
