package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Tag 标签目录，与 Post.tags 相互独立
type Tag struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   *time.Time    `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

type CreateInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Fields 只包含提供了的字段
func (in UpdateInput) Fields() bson.M {
	fields := bson.M{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	return fields
}
