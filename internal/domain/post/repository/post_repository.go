package repository

import (
	"context"

	"github.com/aknur111/blog-web-site/internal/domain/post/model"
	"github.com/aknur111/blog-web-site/pkg/database"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const PostCollection = "posts"

// PostRepository 文章数据访问
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) (bson.ObjectID, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*model.Post, error)
	List(ctx context.Context, filter bson.M, limit, skip int) ([]model.Post, error)
	// ApplyOperator 执行单个操作符更新，不存在的文档静默跳过
	ApplyOperator(ctx context.Context, id bson.ObjectID, update bson.M) error
	// Update $set 字段并刷新 updated_at，返回更新后的文档
	Update(ctx context.Context, id bson.ObjectID, fields bson.M) (*model.Post, error)
	Delete(ctx context.Context, id bson.ObjectID) (bool, error)
	TopTags(ctx context.Context, limit int) ([]model.TagCount, error)
	EnsureIndexes(ctx context.Context) error
}

type postRepository struct {
	posts *database.Collection[model.Post]
}

// NewPostRepository 创建文章仓库
func NewPostRepository(db *mongo.Database) PostRepository {
	return &postRepository{posts: database.NewCollection[model.Post](db, PostCollection, "post")}
}

// PostIndexes 标签+时间复合索引、作者索引与内容全文索引
func PostIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tags", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("tags_created_at"),
		},
		{
			Keys:    bson.D{{Key: "author_id", Value: 1}},
			Options: options.Index().SetName("author_id"),
		},
		{
			Keys:    bson.D{{Key: "content", Value: "text"}},
			Options: options.Index().SetName("content_text"),
		},
	}
}

// TopTagsPipeline 展开标签后按出现次数倒序
func TopTagsPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$tags"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "tag", Value: "$_id"},
			{Key: "count", Value: 1},
		}}},
	}
}

func (r *postRepository) EnsureIndexes(ctx context.Context) error {
	return r.posts.EnsureIndexes(ctx, PostIndexes())
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) (bson.ObjectID, error) {
	id, err := r.posts.Insert(ctx, post)
	if err != nil {
		return bson.ObjectID{}, err
	}
	post.ID = id
	return id, nil
}

func (r *postRepository) GetByID(ctx context.Context, id bson.ObjectID) (*model.Post, error) {
	post, err := r.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Normalize()
	return post, nil
}

// List 按创建时间倒序，只支持 skip/limit 分页
func (r *postRepository) List(ctx context.Context, filter bson.M, limit, skip int) ([]model.Post, error) {
	posts, err := r.posts.Find(ctx, filter, database.FindOptions{
		Sort:  bson.D{{Key: "created_at", Value: -1}},
		Skip:  int64(skip),
		Limit: int64(limit),
	})
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Normalize()
	}
	return posts, nil
}

func (r *postRepository) ApplyOperator(ctx context.Context, id bson.ObjectID, update bson.M) error {
	_, err := r.posts.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *postRepository) Update(ctx context.Context, id bson.ObjectID, fields bson.M) (*model.Post, error) {
	post, err := r.posts.UpdateByID(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	post.Normalize()
	return post, nil
}

func (r *postRepository) Delete(ctx context.Context, id bson.ObjectID) (bool, error) {
	return r.posts.DeleteByID(ctx, id)
}

func (r *postRepository) TopTags(ctx context.Context, limit int) ([]model.TagCount, error) {
	return database.Aggregate[model.TagCount](ctx, r.posts, TopTagsPipeline(limit))
}
