package repository

import (
	"context"
	"time"

	"github.com/aknur111/blog-web-site/internal/domain/post/model"
	"github.com/aknur111/blog-web-site/pkg/database"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	ReactionCollection = "reactions"

	// maxReactionGroups 统计结果最多返回的分组数
	maxReactionGroups = 10
)

// ReactionRepository 反应数据访问
type ReactionRepository interface {
	Upsert(ctx context.Context, postID, userID string, kind model.ReactionKind) error
	Delete(ctx context.Context, postID, userID string) error
	Counts(ctx context.Context, postID string) ([]model.ReactionCount, error)
	EnsureIndexes(ctx context.Context) error
}

type reactionRepository struct {
	reactions *database.Collection[model.Reaction]
}

func NewReactionRepository(db *mongo.Database) ReactionRepository {
	return &reactionRepository{reactions: database.NewCollection[model.Reaction](db, ReactionCollection, "reaction")}
}

// ReactionIndexes (user_id, post_id) 唯一
func ReactionIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "post_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("user_post_unique"),
		},
	}
}

// ReactionKey 反应记录的唯一键
func ReactionKey(postID, userID string) bson.M {
	return bson.M{"post_id": postID, "user_id": userID}
}

// ReactionCountPipeline groups one post's reactions by type, largest first.
func ReactionCountPipeline(postID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "post_id", Value: postID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$reaction_type"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		{{Key: "$limit", Value: maxReactionGroups}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "reaction", Value: "$_id"},
			{Key: "count", Value: 1},
		}}},
	}
}

func (r *reactionRepository) EnsureIndexes(ctx context.Context) error {
	return r.reactions.EnsureIndexes(ctx, ReactionIndexes())
}

// Upsert 同一用户对同一文章只保留最后一次反应
func (r *reactionRepository) Upsert(ctx context.Context, postID, userID string, kind model.ReactionKind) error {
	return r.reactions.Upsert(ctx, ReactionKey(postID, userID), bson.M{
		"reaction_type": kind,
		"created_at":    time.Now().UTC(),
	})
}

// Delete 不存在时也视为成功
func (r *reactionRepository) Delete(ctx context.Context, postID, userID string) error {
	_, err := r.reactions.DeleteOne(ctx, ReactionKey(postID, userID))
	return err
}

func (r *reactionRepository) Counts(ctx context.Context, postID string) ([]model.ReactionCount, error) {
	return database.Aggregate[model.ReactionCount](ctx, r.reactions, ReactionCountPipeline(postID))
}
