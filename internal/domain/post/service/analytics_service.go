package service

import (
	"context"

	"github.com/aknur111/blog-web-site/internal/domain/post/model"
	"github.com/aknur111/blog-web-site/internal/domain/post/repository"
	"github.com/aknur111/blog-web-site/pkg/utils"
)

// AnalyticsService 统计查询，每次请求实时聚合
type AnalyticsService interface {
	TopTags(ctx context.Context, limit int) ([]model.TagCount, error)
}

type analyticsService struct {
	posts repository.PostRepository
}

func NewAnalyticsService(posts repository.PostRepository) AnalyticsService {
	return &analyticsService{posts: posts}
}

func (s *analyticsService) TopTags(ctx context.Context, limit int) ([]model.TagCount, error) {
	return s.posts.TopTags(ctx, utils.TopTagsPage.Clamp(limit))
}
