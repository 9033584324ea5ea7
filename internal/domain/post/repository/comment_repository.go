package repository

import (
	"context"

	"github.com/aknur111/blog-web-site/internal/domain/post/model"
	"github.com/aknur111/blog-web-site/pkg/database"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const CommentCollection = "comments"

// CommentRepository 评论数据访问
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) (bson.ObjectID, error)
	ListByPost(ctx context.Context, postID string, limit int) ([]model.CommentView, error)
	UpdateContent(ctx context.Context, id bson.ObjectID, content string) (*model.Comment, error)
	Delete(ctx context.Context, id bson.ObjectID) (bool, error)
	EnsureIndexes(ctx context.Context) error
}

type commentRepository struct {
	comments *database.Collection[model.Comment]
}

func NewCommentRepository(db *mongo.Database) CommentRepository {
	return &commentRepository{comments: database.NewCollection[model.Comment](db, CommentCollection, "comment")}
}

func CommentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "post_id", Value: 1}},
			Options: options.Index().SetName("post_id"),
		},
		{
			Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("post_id_created_at"),
		},
	}
}

// commentListProjection 列表只返回 id, user_id, content, created_at
var commentListProjection = bson.M{"_id": 1, "user_id": 1, "content": 1, "created_at": 1}

func (r *commentRepository) EnsureIndexes(ctx context.Context) error {
	return r.comments.EnsureIndexes(ctx, CommentIndexes())
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) (bson.ObjectID, error) {
	id, err := r.comments.Insert(ctx, comment)
	if err != nil {
		return bson.ObjectID{}, err
	}
	comment.ID = id
	return id, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string, limit int) ([]model.CommentView, error) {
	comments, err := r.comments.Find(ctx, bson.M{"post_id": postID}, database.FindOptions{
		Sort:       bson.D{{Key: "created_at", Value: -1}},
		Limit:      int64(limit),
		Projection: commentListProjection,
	})
	if err != nil {
		return nil, err
	}

	views := make([]model.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, c.View())
	}
	return views, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id bson.ObjectID, content string) (*model.Comment, error) {
	return r.comments.UpdateByID(ctx, id, bson.M{"content": content})
}

func (r *commentRepository) Delete(ctx context.Context, id bson.ObjectID) (bool, error) {
	return r.comments.DeleteByID(ctx, id)
}
