package service

import (
	"context"
	"strings"
	"time"

	"github.com/aknur111/blog-web-site/internal/domain/tag/model"
	"github.com/aknur111/blog-web-site/internal/domain/tag/repository"
	"github.com/aknur111/blog-web-site/pkg/errs"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type TagService interface {
	Create(ctx context.Context, input model.CreateInput) (*model.Tag, error)
	List(ctx context.Context) ([]model.Tag, error)
	Get(ctx context.Context, id bson.ObjectID) (*model.Tag, error)
	Update(ctx context.Context, id bson.ObjectID, input model.UpdateInput) (*model.Tag, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

type tagService struct {
	repo repository.TagRepository
}

func NewTagService(repo repository.TagRepository) TagService {
	return &tagService{repo: repo}
}

func (s *tagService) Create(ctx context.Context, input model.CreateInput) (*model.Tag, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errs.Validation("name is required")
	}

	tag := &model.Tag{
		Name:        name,
		Description: input.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.repo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagService) List(ctx context.Context) ([]model.Tag, error) {
	return s.repo.List(ctx)
}

func (s *tagService) Get(ctx context.Context, id bson.ObjectID) (*model.Tag, error) {
	return s.repo.GetByID(ctx, id)
}

// Update 空更新直接返回当前标签
func (s *tagService) Update(ctx context.Context, id bson.ObjectID, input model.UpdateInput) (*model.Tag, error) {
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, errs.Validation("name must not be empty")
		}
		input.Name = &trimmed
	}
	return s.repo.Update(ctx, id, input.Fields())
}

func (s *tagService) Delete(ctx context.Context, id bson.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errs.NotFound("tag")
	}
	return nil
}
