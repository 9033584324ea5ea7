package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aknur111/blog-web-site/internal/domain/user/model"
	"github.com/aknur111/blog-web-site/internal/pkg/identity"
	"github.com/aknur111/blog-web-site/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, username, email string) (*model.RegisterResult, error) {
	args := m.Called(username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RegisterResult), args.Error(1)
}

func (m *MockUserService) ResolveToken(ctx context.Context, token string) (*identity.Identity, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}

func (m *MockUserService) GetUsers(ctx context.Context, limit, skip int) ([]model.User, error) {
	args := m.Called(limit, skip)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id bson.ObjectID) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id bson.ObjectID, input model.UpdateInput) (*model.User, error) {
	args := m.Called(id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id bson.ObjectID) error {
	return m.Called(id).Error(0)
}

func setupRouter(svc *MockUserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewUserHandler(svc)
	r.POST("/register", h.Register)
	r.GET("/users", h.GetUsers)
	r.GET("/users/:id", h.GetUser)
	r.DELETE("/users/:id", h.DeleteUser)
	return r
}

func TestRegisterHandler(t *testing.T) {
	t.Run("returns token", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("Register", "alice", "alice@example.com").Return(&model.RegisterResult{
			ID: "65f000000000000000000001", Username: "alice", Email: "alice@example.com", Token: "tok",
		}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/register?username=alice&email=alice@example.com", nil)
		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"65f000000000000000000001","username":"alice","email":"alice@example.com","token":"tok"}`, w.Body.String())
	})

	t.Run("missing email", func(t *testing.T) {
		svc := new(MockUserService)

		w := httptest.NewRecorder()
		setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/register?username=alice", nil))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})
}

func TestGetUserHandler(t *testing.T) {
	t.Run("bad id is 400 without a lookup", func(t *testing.T) {
		svc := new(MockUserService)

		w := httptest.NewRecorder()
		setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/bad-id", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "GetUser", mock.Anything)
	})

	t.Run("token is never serialized", func(t *testing.T) {
		svc := new(MockUserService)
		id := bson.NewObjectID()
		svc.On("GetUser", id).Return(&model.User{ID: id, Username: "alice", Token: "secret"}, nil)

		w := httptest.NewRecorder()
		setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/"+id.Hex(), nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "secret")

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, id.Hex(), body["id"])
	})

	t.Run("missing user", func(t *testing.T) {
		svc := new(MockUserService)
		id := bson.NewObjectID()
		svc.On("GetUser", id).Return(nil, errs.NotFound("user"))

		w := httptest.NewRecorder()
		setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/"+id.Hex(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.True(t, strings.Contains(w.Body.String(), "user not found"))
	})
}

func TestGetUsersHandler(t *testing.T) {
	svc := new(MockUserService)
	svc.On("GetUsers", 5, 10).Return([]model.User{}, nil)

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users?limit=5&skip=10", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users?limit=500", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
