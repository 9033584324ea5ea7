package service

import (
	"context"
	"strings"
	"time"

	"github.com/aknur111/blog-web-site/internal/domain/post/model"
	"github.com/aknur111/blog-web-site/internal/domain/post/repository"
	"github.com/aknur111/blog-web-site/internal/pkg/identity"
	"github.com/aknur111/blog-web-site/pkg/errs"
	"github.com/aknur111/blog-web-site/pkg/logger"
	"github.com/aknur111/blog-web-site/pkg/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// PostService 文章及其评论、反应
type PostService interface {
	CreatePost(ctx context.Context, input model.PostInput, actor *identity.Identity) (*model.Post, error)
	ListPosts(ctx context.Context, q model.ListQuery) ([]model.Post, error)
	ListMyPosts(ctx context.Context, actor *identity.Identity, limit, skip int) ([]model.Post, error)
	GetPost(ctx context.Context, id bson.ObjectID) (*model.Post, error)
	UpdatePost(ctx context.Context, id bson.ObjectID, patch model.PostPatch, actor *identity.Identity) (*model.Post, error)
	DeletePost(ctx context.Context, id bson.ObjectID) error

	AddComment(ctx context.Context, postID bson.ObjectID, content string, actor *identity.Identity) (*model.Comment, error)
	ListComments(ctx context.Context, postID bson.ObjectID, limit int) ([]model.CommentView, error)
	UpdateComment(ctx context.Context, id bson.ObjectID, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, id bson.ObjectID) error

	React(ctx context.Context, postID bson.ObjectID, kind model.ReactionKind, actor *identity.Identity) error
	ReactionCounts(ctx context.Context, postID bson.ObjectID) ([]model.ReactionCount, error)
	RemoveReaction(ctx context.Context, postID bson.ObjectID, actor *identity.Identity) error
}

type postService struct {
	posts     repository.PostRepository
	comments  repository.CommentRepository
	reactions repository.ReactionRepository
	now       func() time.Time
}

// NewPostService 创建文章服务
func NewPostService(posts repository.PostRepository, comments repository.CommentRepository, reactions repository.ReactionRepository) PostService {
	return &postService{
		posts:     posts,
		comments:  comments,
		reactions: reactions,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreatePost 作者始终取自认证身份
func (s *postService) CreatePost(ctx context.Context, input model.PostInput, actor *identity.Identity) (*model.Post, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, errs.Validation("content is required")
	}

	post := &model.Post{
		AuthorID:   actor.Author(),
		Content:    input.Content,
		MediaURL:   input.MediaURL,
		CategoryID: input.CategoryID,
		Status:     input.Status,
		Tags:       input.Tags,
		Views:      0,
		CreatedAt:  s.now(),
	}
	if post.CategoryID == "" {
		post.CategoryID = model.DefaultCategory
	}
	if post.Status == "" {
		post.Status = model.DefaultStatus
	}
	post.Normalize()

	if _, err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	logger.Log.Debug("post created", zap.String("post_id", post.ID.Hex()), zap.String("author", post.AuthorID))
	return post, nil
}

// ListPosts 按条件分页查询
func (s *postService) ListPosts(ctx context.Context, q model.ListQuery) ([]model.Post, error) {
	return s.posts.List(ctx, q.Filter(), utils.PostPage.Clamp(q.Limit), max(q.Skip, 0))
}

// ListMyPosts 当前用户的文章
func (s *postService) ListMyPosts(ctx context.Context, actor *identity.Identity, limit, skip int) ([]model.Post, error) {
	return s.ListPosts(ctx, model.ListQuery{Author: actor.Author(), Limit: limit, Skip: skip})
}

func (s *postService) GetPost(ctx context.Context, id bson.ObjectID) (*model.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// UpdatePost applies push_tag, pull_tag and inc_views in that order, then the
// plain fields. updated_at only moves when a plain field is present.
func (s *postService) UpdatePost(ctx context.Context, id bson.ObjectID, patch model.PostPatch, actor *identity.Identity) (*model.Post, error) {
	for _, op := range patch.Operations() {
		if err := s.posts.ApplyOperator(ctx, id, op); err != nil {
			return nil, err
		}
	}

	post, err := s.posts.Update(ctx, id, patch.Set)
	if err != nil {
		return nil, err
	}

	if actor != nil && !patch.Empty() {
		logger.Log.Debug("post updated", zap.String("post_id", id.Hex()), zap.String("by", actor.Author()))
	}
	return post, nil
}

// DeletePost 不级联删除评论与反应
func (s *postService) DeletePost(ctx context.Context, id bson.ObjectID) error {
	deleted, err := s.posts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errs.NotFound("post")
	}
	return nil
}

// AddComment 文章必须存在
func (s *postService) AddComment(ctx context.Context, postID bson.ObjectID, content string, actor *identity.Identity) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errs.Validation("content is required")
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		UserID:    actor.Author(),
		PostID:    postID.Hex(),
		Content:   content,
		CreatedAt: s.now(),
	}
	if _, err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments 不检查文章是否存在，没有评论时返回空列表
func (s *postService) ListComments(ctx context.Context, postID bson.ObjectID, limit int) ([]model.CommentView, error) {
	return s.comments.ListByPost(ctx, postID.Hex(), utils.CommentPage.Clamp(limit))
}

func (s *postService) UpdateComment(ctx context.Context, id bson.ObjectID, content string) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errs.Validation("content is required")
	}
	return s.comments.UpdateContent(ctx, id, content)
}

func (s *postService) DeleteComment(ctx context.Context, id bson.ObjectID) error {
	deleted, err := s.comments.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errs.NotFound("comment")
	}
	return nil
}

// React 以 (post, subject) 为键 upsert，文章存在性不做检查
func (s *postService) React(ctx context.Context, postID bson.ObjectID, kind model.ReactionKind, actor *identity.Identity) error {
	if _, err := model.ParseReactionKind(string(kind)); err != nil {
		return err
	}
	return s.reactions.Upsert(ctx, postID.Hex(), actor.Subject(), kind)
}

func (s *postService) ReactionCounts(ctx context.Context, postID bson.ObjectID) ([]model.ReactionCount, error) {
	return s.reactions.Counts(ctx, postID.Hex())
}

// RemoveReaction 幂等
func (s *postService) RemoveReaction(ctx context.Context, postID bson.ObjectID, actor *identity.Identity) error {
	return s.reactions.Delete(ctx, postID.Hex(), actor.Subject())
}
