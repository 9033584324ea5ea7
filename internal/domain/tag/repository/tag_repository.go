package repository

import (
	"context"

	"github.com/aknur111/blog-web-site/internal/domain/tag/model"
	"github.com/aknur111/blog-web-site/pkg/database"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const CollectionName = "tags"

type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) (bson.ObjectID, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*model.Tag, error)
	List(ctx context.Context) ([]model.Tag, error)
	Update(ctx context.Context, id bson.ObjectID, fields bson.M) (*model.Tag, error)
	Delete(ctx context.Context, id bson.ObjectID) (bool, error)
	EnsureIndexes(ctx context.Context) error
}

type tagRepository struct {
	tags *database.Collection[model.Tag]
}

func NewTagRepository(db *mongo.Database) TagRepository {
	return &tagRepository{tags: database.NewCollection[model.Tag](db, CollectionName, "tag")}
}

func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetName("name")},
	}
}

func (r *tagRepository) EnsureIndexes(ctx context.Context) error {
	return r.tags.EnsureIndexes(ctx, Indexes())
}

func (r *tagRepository) Create(ctx context.Context, tag *model.Tag) (bson.ObjectID, error) {
	id, err := r.tags.Insert(ctx, tag)
	if err != nil {
		return bson.ObjectID{}, err
	}
	tag.ID = id
	return id, nil
}

func (r *tagRepository) GetByID(ctx context.Context, id bson.ObjectID) (*model.Tag, error) {
	return r.tags.FindByID(ctx, id)
}

// List 按名称排序
func (r *tagRepository) List(ctx context.Context) ([]model.Tag, error) {
	return r.tags.Find(ctx, bson.M{}, database.FindOptions{Sort: bson.D{{Key: "name", Value: 1}}})
}

func (r *tagRepository) Update(ctx context.Context, id bson.ObjectID, fields bson.M) (*model.Tag, error) {
	return r.tags.UpdateByID(ctx, id, fields)
}

func (r *tagRepository) Delete(ctx context.Context, id bson.ObjectID) (bool, error) {
	return r.tags.DeleteByID(ctx, id)
}
