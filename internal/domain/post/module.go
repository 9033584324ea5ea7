package post

import (
	"context"
	"errors"

	"github.com/aknur111/blog-web-site/internal/domain/post/handler"
	"github.com/aknur111/blog-web-site/internal/domain/post/repository"
	"github.com/aknur111/blog-web-site/internal/domain/post/service"
	"github.com/aknur111/blog-web-site/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// PostModule 文章、评论、反应与统计
type PostModule struct {
	posts     repository.PostRepository
	comments  repository.CommentRepository
	reactions repository.ReactionRepository
}

func init() {
	registry.Register(&PostModule{})
}

func (m *PostModule) Name() string {
	return "post"
}

func (m *PostModule) Priority() int {
	return 10
}

func (m *PostModule) Init(ctx *registry.ModuleContext) error {
	if ctx.Auth == nil {
		return errors.New("post module requires the auth middleware; user module must initialize first")
	}

	m.posts = repository.NewPostRepository(ctx.DB)
	m.comments = repository.NewCommentRepository(ctx.DB)
	m.reactions = repository.NewReactionRepository(ctx.DB)

	postService := service.NewPostService(m.posts, m.comments, m.reactions)
	analyticsService := service.NewAnalyticsService(m.posts)

	SetupRoutes(ctx.Router, ctx.Auth,
		handler.NewPostHandler(postService),
		handler.NewInteractionHandler(postService),
		handler.NewAnalyticsHandler(analyticsService),
	)
	return nil
}

// EnsureIndexes 创建 posts、comments、reactions 索引
func (m *PostModule) EnsureIndexes(ctx context.Context) error {
	return errors.Join(
		m.posts.EnsureIndexes(ctx),
		m.comments.EnsureIndexes(ctx),
		m.reactions.EnsureIndexes(ctx),
	)
}

// SetupRoutes 注册路由，写操作需要认证
func SetupRoutes(r *gin.Engine, auth gin.HandlerFunc, ph *handler.PostHandler, ih *handler.InteractionHandler, ah *handler.AnalyticsHandler) {
	posts := r.Group("/posts")
	{
		posts.POST("", auth, ph.CreatePost)
		posts.GET("", ph.ListPosts)
		posts.GET("/me", auth, ph.ListMyPosts)
		posts.GET("/:id", ph.GetPost)
		posts.PUT("/:id", auth, ph.UpdatePost)
		posts.DELETE("/:id", auth, ph.DeletePost)

		posts.POST("/:id/comments", auth, ih.AddComment)
		posts.GET("/:id/comments", ih.ListComments)

		posts.POST("/:id/reactions", auth, ih.React)
		posts.GET("/:id/reactions", ih.ReactionCounts)
		posts.DELETE("/:id/reactions", auth, ih.RemoveReaction)
	}

	comments := r.Group("/comments", auth)
	{
		comments.PUT("/:id", ih.UpdateComment)
		comments.DELETE("/:id", ih.DeleteComment)
	}

	r.GET("/analytics/top-tags", ah.TopTags)
}
