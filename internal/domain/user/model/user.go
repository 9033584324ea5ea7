package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	RoleAuthor = "author"
	RoleReader = "reader"
)

// User 用户模型
type User struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string        `bson:"username" json:"username"`
	Email     string        `bson:"email" json:"email"`
	Role      string        `bson:"role" json:"role"`
	Token     string        `bson:"token,omitempty" json:"-"` // 只在注册响应中返回
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time    `bson:"updated_at" json:"updated_at"`
}

// RegisterInput 注册参数 (query string)
type RegisterInput struct {
	Username string `form:"username" binding:"required"`
	Email    string `form:"email" binding:"required"`
}

// RegisterResult is the only place a token is ever serialized.
type RegisterResult struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// UpdateInput 用户更新，未提供的字段保持不变
type UpdateInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Role     *string `json:"role" binding:"omitempty,oneof=author reader"`
}

// Fields 转换为 $set 字段集
func (in UpdateInput) Fields() bson.M {
	fields := bson.M{}
	if in.Username != nil {
		fields["username"] = *in.Username
	}
	if in.Email != nil {
		fields["email"] = *in.Email
	}
	if in.Role != nil {
		fields["role"] = *in.Role
	}
	return fields
}
