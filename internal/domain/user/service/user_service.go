package service

import (
	"context"
	"strings"
	"time"

	"github.com/aknur111/blog-web-site/internal/domain/user/model"
	"github.com/aknur111/blog-web-site/internal/domain/user/repository"
	"github.com/aknur111/blog-web-site/internal/pkg/identity"
	"github.com/aknur111/blog-web-site/pkg/errs"
	"github.com/aknur111/blog-web-site/pkg/logger"
	"github.com/aknur111/blog-web-site/pkg/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// UserService 用户服务接口
type UserService interface {
	Register(ctx context.Context, username, email string) (*model.RegisterResult, error)
	ResolveToken(ctx context.Context, token string) (*identity.Identity, error)
	GetUsers(ctx context.Context, limit, skip int) ([]model.User, error)
	GetUser(ctx context.Context, id bson.ObjectID) (*model.User, error)
	UpdateUser(ctx context.Context, id bson.ObjectID, input model.UpdateInput) (*model.User, error)
	DeleteUser(ctx context.Context, id bson.ObjectID) error
}

// userService 实现
type userService struct {
	repo     repository.UserRepository
	newToken func() (string, error)
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo, newToken: utils.GenerateToken}
}

func toResult(u *model.User) *model.RegisterResult {
	return &model.RegisterResult{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Email:    u.Email,
		Token:    u.Token,
	}
}

// Register 注册或返回已存在的用户
// 同一 email 重复注册返回原有 token，且不修改已存储的用户名
func (s *userService) Register(ctx context.Context, username, email string) (*model.RegisterResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, errs.Validation("username is required")
	}
	if email == "" {
		return nil, errs.Validation("email is required")
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return toResult(existing), nil
	}
	if !errs.IsNotFound(err) {
		return nil, err
	}

	token, err := s.newToken()
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:  username,
		Email:     email,
		Role:      model.RoleAuthor,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.repo.Create(ctx, user); err != nil {
		if !errs.IsConflict(err) {
			return nil, err
		}
		// 并发注册同一 email，返回先写入的那条
		existing, getErr := s.repo.GetByEmail(ctx, email)
		if getErr != nil {
			return nil, err
		}
		return toResult(existing), nil
	}

	logger.Log.Info("user registered", zap.String("user_id", user.ID.Hex()), zap.String("username", user.Username))
	return toResult(user), nil
}

// ResolveToken 根据 token 查找用户
func (s *userService) ResolveToken(ctx context.Context, token string) (*identity.Identity, error) {
	if token == "" {
		return nil, errs.Unauthorized("missing token")
	}
	user, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, errs.Unauthorized("invalid token")
		}
		return nil, err
	}
	return &identity.Identity{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}

// GetUsers 获取用户列表（分页）
func (s *userService) GetUsers(ctx context.Context, limit, skip int) ([]model.User, error) {
	return s.repo.GetList(ctx, limit, skip)
}

// GetUser 获取单个用户
func (s *userService) GetUser(ctx context.Context, id bson.ObjectID) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateUser 更新用户，email 冲突时返回 Conflict
func (s *userService) UpdateUser(ctx context.Context, id bson.ObjectID, input model.UpdateInput) (*model.User, error) {
	if input.Username != nil && strings.TrimSpace(*input.Username) == "" {
		return nil, errs.Validation("username must not be empty")
	}
	if input.Email != nil && strings.TrimSpace(*input.Email) == "" {
		return nil, errs.Validation("email must not be empty")
	}
	return s.repo.Update(ctx, id, input.Fields())
}

// DeleteUser 删除用户
func (s *userService) DeleteUser(ctx context.Context, id bson.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errs.NotFound("user")
	}
	return nil
}
