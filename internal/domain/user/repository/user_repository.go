package repository

import (
	"context"

	"github.com/aknur111/blog-web-site/internal/domain/user/model"
	"github.com/aknur111/blog-web-site/pkg/database"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const CollectionName = "users"

// UserRepository 接口定义
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (bson.ObjectID, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByToken(ctx context.Context, token string) (*model.User, error)
	GetList(ctx context.Context, limit, skip int) ([]model.User, error)
	Update(ctx context.Context, id bson.ObjectID, fields bson.M) (*model.User, error)
	Delete(ctx context.Context, id bson.ObjectID) (bool, error)
	EnsureIndexes(ctx context.Context) error
}

// userRepository 实现
type userRepository struct {
	users *database.Collection[model.User]
}

// NewUserRepository 创建新的仓库实例
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{users: database.NewCollection[model.User](db, CollectionName, "user")}
}

// Indexes token 唯一且稀疏 (未注册 token 的旧用户不冲突)，email 唯一
func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("token_unique"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
	}
}

func (r *userRepository) EnsureIndexes(ctx context.Context) error {
	return r.users.EnsureIndexes(ctx, Indexes())
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *model.User) (bson.ObjectID, error) {
	id, err := r.users.Insert(ctx, user)
	if err != nil {
		return bson.ObjectID{}, err
	}
	user.ID = id
	return id, nil
}

// GetByID 根据ID获取用户
func (r *userRepository) GetByID(ctx context.Context, id bson.ObjectID) (*model.User, error) {
	return r.users.FindByID(ctx, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.users.FindOne(ctx, bson.M{"email": email})
}

// GetByToken 精确匹配 token
func (r *userRepository) GetByToken(ctx context.Context, token string) (*model.User, error) {
	return r.users.FindOne(ctx, bson.M{"token": token})
}

// GetList 获取用户列表（分页，按创建时间倒序）
func (r *userRepository) GetList(ctx context.Context, limit, skip int) ([]model.User, error) {
	return r.users.Find(ctx, bson.M{}, database.FindOptions{
		Sort:  bson.D{{Key: "created_at", Value: -1}},
		Skip:  int64(skip),
		Limit: int64(limit),
	})
}

// Update 更新用户
func (r *userRepository) Update(ctx context.Context, id bson.ObjectID, fields bson.M) (*model.User, error) {
	return r.users.UpdateByID(ctx, id, fields)
}

// Delete 删除用户
func (r *userRepository) Delete(ctx context.Context, id bson.ObjectID) (bool, error) {
	return r.users.DeleteByID(ctx, id)
}
