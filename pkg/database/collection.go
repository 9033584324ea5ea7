package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aknur111/blog-web-site/pkg/errs"
	"github.com/aknur111/blog-web-site/pkg/metrics"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// FindOptions 查询选项，零值字段不生效
type FindOptions struct {
	Sort       bson.D
	Skip       int64
	Limit      int64
	Projection bson.M
}

// Collection is a typed view over one MongoDB collection. Every operation is
// a single-document (or single-pipeline) call and is recorded in the DB
// metrics.
type Collection[T any] struct {
	coll    *mongo.Collection
	name    string
	entity  string
	metrics *metrics.MetricsCollector
}

// NewCollection 创建集合访问对象，entity 用于 not found 错误描述
func NewCollection[T any](db *mongo.Database, name, entity string) *Collection[T] {
	return &Collection[T]{
		coll:    db.Collection(name),
		name:    name,
		entity:  entity,
		metrics: metrics.GetGlobalCollector(),
	}
}

func (c *Collection[T]) Name() string {
	return c.name
}

func (c *Collection[T]) observe(op string, start time.Time, err error) {
	ok := err == nil || errors.Is(err, mongo.ErrNoDocuments)
	c.metrics.RecordDBQuery(op, c.name, time.Since(start), ok)
}

func (c *Collection[T]) notFound() error {
	return errs.NotFound(c.entity)
}

// Insert 插入文档，返回生成的 ObjectID
func (c *Collection[T]) Insert(ctx context.Context, doc *T) (bson.ObjectID, error) {
	start := time.Now()
	res, err := c.coll.InsertOne(ctx, doc)
	c.observe("insert", start, err)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bson.ObjectID{}, errs.Conflict(fmt.Sprintf("%s already exists", c.entity))
		}
		return bson.ObjectID{}, err
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return bson.ObjectID{}, fmt.Errorf("%s: unexpected inserted id type %T", c.name, res.InsertedID)
	}
	return id, nil
}

// FindByID 根据 _id 查询
func (c *Collection[T]) FindByID(ctx context.Context, id bson.ObjectID) (*T, error) {
	return c.FindOne(ctx, bson.M{"_id": id})
}

// FindOne returns errs.ErrNotFound when nothing matches.
func (c *Collection[T]) FindOne(ctx context.Context, filter any) (*T, error) {
	start := time.Now()
	var doc T
	err := c.coll.FindOne(ctx, filter).Decode(&doc)
	c.observe("find_one", start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, c.notFound()
		}
		return nil, err
	}
	return &doc, nil
}

// Find 条件查询，结果为空时返回空切片
func (c *Collection[T]) Find(ctx context.Context, filter any, fo FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.M{}
	}

	opts := options.Find()
	if len(fo.Sort) > 0 {
		opts.SetSort(fo.Sort)
	}
	if fo.Skip > 0 {
		opts.SetSkip(fo.Skip)
	}
	if fo.Limit > 0 {
		opts.SetLimit(fo.Limit)
	}
	if fo.Projection != nil {
		opts.SetProjection(fo.Projection)
	}

	start := time.Now()
	cur, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		c.observe("find", start, err)
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	err = cur.All(ctx, &out)
	c.observe("find", start, err)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = make([]T, 0)
	}
	return out, nil
}

// UpdateByID sets the given fields plus updated_at and returns the document
// as it is after the update. An empty field set changes nothing and returns
// the current document.
func (c *Collection[T]) UpdateByID(ctx context.Context, id bson.ObjectID, fields bson.M) (*T, error) {
	if len(fields) == 0 {
		return c.FindByID(ctx, id)
	}

	set := make(bson.M, len(fields)+1)
	for k, v := range fields {
		set[k] = v
	}
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	start := time.Now()
	var doc T
	err := c.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	c.observe("update", start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, c.notFound()
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, errs.Conflict(fmt.Sprintf("%s conflicts with an existing one", c.entity))
		}
		return nil, err
	}
	return &doc, nil
}

// UpdateOne 执行原始操作符更新，返回匹配数量
func (c *Collection[T]) UpdateOne(ctx context.Context, filter, update any) (int64, error) {
	start := time.Now()
	res, err := c.coll.UpdateOne(ctx, filter, update)
	c.observe("update_one", start, err)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Upsert atomically inserts or overwrites the document matching filter.
func (c *Collection[T]) Upsert(ctx context.Context, filter any, set bson.M) error {
	start := time.Now()
	_, err := c.coll.UpdateOne(ctx, filter, bson.M{"$set": set}, options.UpdateOne().SetUpsert(true))
	c.observe("upsert", start, err)
	return err
}

// DeleteByID 删除文档，返回是否删除
func (c *Collection[T]) DeleteByID(ctx context.Context, id bson.ObjectID) (bool, error) {
	return c.DeleteOne(ctx, bson.M{"_id": id})
}

func (c *Collection[T]) DeleteOne(ctx context.Context, filter any) (bool, error) {
	start := time.Now()
	res, err := c.coll.DeleteOne(ctx, filter)
	c.observe("delete", start, err)
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// EnsureIndexes 创建索引 (已存在的同名索引不会报错)
func (c *Collection[T]) EnsureIndexes(ctx context.Context, models []mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	start := time.Now()
	_, err := c.coll.Indexes().CreateMany(ctx, models)
	c.observe("create_indexes", start, err)
	if err != nil {
		return fmt.Errorf("%s indexes: %w", c.name, err)
	}
	return nil
}

// Aggregate runs pipeline on c and decodes every result into R.
func Aggregate[R, T any](ctx context.Context, c *Collection[T], pipeline mongo.Pipeline) ([]R, error) {
	start := time.Now()
	cur, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		c.observe("aggregate", start, err)
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]R, 0)
	err = cur.All(ctx, &out)
	c.observe("aggregate", start, err)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = make([]R, 0)
	}
	return out, nil
}
