package model

import (
	"time"

	"github.com/aknur111/blog-web-site/pkg/errs"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Comment 评论，post_id 保存文章 ID 的十六进制字符串
type Comment struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string        `bson:"user_id" json:"user_id"`
	PostID    string        `bson:"post_id" json:"post_id"`
	Content   string        `bson:"content" json:"content"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time    `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// CommentView 评论列表项
type CommentView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Comment) View() CommentView {
	return CommentView{
		ID:        c.ID.Hex(),
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

// CommentInput 评论输入
type CommentInput struct {
	Content string `json:"content" binding:"required"`
}

// ReactionKind 反应类型
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
	ReactionLove    ReactionKind = "love"
)

// ParseReactionKind 校验反应类型
func ParseReactionKind(s string) (ReactionKind, error) {
	switch k := ReactionKind(s); k {
	case ReactionLike, ReactionDislike, ReactionLove:
		return k, nil
	default:
		return "", errs.Validation("reaction_type must be one of like, dislike, love")
	}
}

// Reaction 每个 (user_id, post_id) 最多一条
type Reaction struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       string        `bson:"user_id" json:"user_id"`
	PostID       string        `bson:"post_id" json:"post_id"`
	ReactionType ReactionKind  `bson:"reaction_type" json:"reaction_type"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
}

// ReactionCount 按类型统计
type ReactionCount struct {
	Reaction ReactionKind `bson:"reaction" json:"reaction"`
	Count    int64        `bson:"count" json:"count"`
}
