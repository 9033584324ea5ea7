package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	DefaultCategory = "general"
	DefaultStatus   = "published"
)

// Post 文章
type Post struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID   string        `bson:"author_id" json:"author_id"`
	Content    string        `bson:"content" json:"content"`
	MediaURL   string        `bson:"media_url" json:"media_url"`
	CategoryID string        `bson:"category_id" json:"category_id"`
	Status     string        `bson:"status" json:"status"`
	Tags       []string      `bson:"tags" json:"tags"`
	Views      int64         `bson:"views" json:"views"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt  *time.Time    `bson:"updated_at" json:"updated_at"` // 未编辑时为 null
}

// Normalize fills the zero values older documents may lack.
func (p *Post) Normalize() {
	if p.Tags == nil {
		p.Tags = []string{}
	}
}

// PostInput 创建文章输入
// author_id 由认证身份决定，客户端传入的值会被忽略
type PostInput struct {
	AuthorID   string   `json:"author_id"`
	Content    string   `json:"content" binding:"required"`
	MediaURL   string   `json:"media_url"`
	CategoryID string   `json:"category_id"`
	Status     string   `json:"status"`
	Tags       []string `json:"tags"`
}

// ListQuery 文章列表过滤条件，空字段不参与过滤
type ListQuery struct {
	Tag    string `form:"tag"`
	Author string `form:"author"`
	Q      string `form:"q"`
	Limit  int    `form:"-"`
	Skip   int    `form:"-"`
}

// Filter 构造合取查询条件
func (q ListQuery) Filter() bson.M {
	filter := bson.M{}
	if q.Tag != "" {
		filter["tags"] = q.Tag
	}
	if q.Author != "" {
		filter["author_id"] = q.Author
	}
	if q.Q != "" {
		filter["$text"] = bson.M{"$search": q.Q}
	}
	return filter
}

// TagCount 标签使用次数
type TagCount struct {
	Tag   string `bson:"tag" json:"tag"`
	Count int64  `bson:"count" json:"count"`
}
