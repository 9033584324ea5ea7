package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aknur111/blog-web-site/internal/domain/post/model"
	"github.com/aknur111/blog-web-site/internal/domain/post/posttest"
	"github.com/aknur111/blog-web-site/internal/pkg/identity"
	"github.com/aknur111/blog-web-site/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func newTestService() (PostService, *posttest.Store) {
	store := posttest.NewStore()
	return NewPostService(store.Posts(), store.Comments(), store.Reactions()), store
}

func patchOf(t *testing.T, body string) model.PostPatch {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	patch, err := model.ParsePostPatch(raw)
	require.NoError(t, err)
	return patch
}

var (
	alice = &identity.Identity{ID: bson.NewObjectID(), Username: "alice", Email: "alice@example.com"}
	bob   = &identity.Identity{ID: bson.NewObjectID(), Username: "bob", Email: "bob@example.com"}
)

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	t.Run("author comes from identity", func(t *testing.T) {
		post, err := svc.CreatePost(ctx, model.PostInput{AuthorID: "mallory", Content: "hi"}, alice)

		require.NoError(t, err)
		assert.Equal(t, "alice", post.AuthorID)
		assert.False(t, post.ID.IsZero())
		assert.Equal(t, int64(0), post.Views)
		assert.Nil(t, post.UpdatedAt)
		assert.False(t, post.CreatedAt.IsZero())
		assert.Equal(t, model.DefaultCategory, post.CategoryID)
		assert.Equal(t, model.DefaultStatus, post.Status)
		assert.Equal(t, []string{}, post.Tags)
	})

	t.Run("author falls back to id", func(t *testing.T) {
		anon := &identity.Identity{ID: bson.NewObjectID()}
		post, err := svc.CreatePost(ctx, model.PostInput{Content: "hi"}, anon)

		require.NoError(t, err)
		assert.Equal(t, anon.ID.Hex(), post.AuthorID)
	})

	t.Run("blank content rejected", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, model.PostInput{Content: "   "}, alice)
		assert.True(t, errs.IsValidation(err))
	})
}

// alice: create, bump views, then edit content
func TestAliceScenario(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	post, err := svc.CreatePost(ctx, model.PostInput{Content: "hi", Tags: []string{"x"}}, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", post.AuthorID)

	post, err = svc.UpdatePost(ctx, post.ID, patchOf(t, `{"inc_views":5}`), alice)
	require.NoError(t, err)
	assert.Equal(t, int64(5), post.Views)
	assert.Nil(t, post.UpdatedAt, "operator-only patch must not touch updated_at")

	post, err = svc.UpdatePost(ctx, post.ID, patchOf(t, `{"content":"hi2"}`), alice)
	require.NoError(t, err)
	assert.Equal(t, "hi2", post.Content)
	assert.Equal(t, int64(5), post.Views)
	require.NotNil(t, post.UpdatedAt)
	assert.False(t, post.UpdatedAt.Before(post.CreatedAt))
}

func TestUpdatePostOperators(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	post, err := svc.CreatePost(ctx, model.PostInput{Content: "hi", Tags: []string{"x"}}, alice)
	require.NoError(t, err)

	t.Run("push_tag is idempotent", func(t *testing.T) {
		_, err := svc.UpdatePost(ctx, post.ID, patchOf(t, `{"push_tag":"y"}`), alice)
		require.NoError(t, err)
		got, err := svc.UpdatePost(ctx, post.ID, patchOf(t, `{"push_tag":"y"}`), alice)
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y"}, got.Tags)
	})

	t.Run("pull_tag on absent tag is a no-op", func(t *testing.T) {
		got, err := svc.UpdatePost(ctx, post.ID, patchOf(t, `{"pull_tag":"zzz"}`), alice)
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y"}, got.Tags)
	})

	t.Run("push then pull of the same tag removes it", func(t *testing.T) {
		got, err := svc.UpdatePost(ctx, post.ID, patchOf(t, `{"push_tag":"tmp","pull_tag":"tmp"}`), alice)
		require.NoError(t, err)
		assert.NotContains(t, got.Tags, "tmp")
	})

	t.Run("negative increment is not clamped", func(t *testing.T) {
		got, err := svc.UpdatePost(ctx, post.ID, patchOf(t, `{"inc_views":-2}`), alice)
		require.NoError(t, err)
		assert.Equal(t, int64(-2), got.Views)
	})

	t.Run("operators run before plain tags", func(t *testing.T) {
		got, err := svc.UpdatePost(ctx, post.ID, patchOf(t, `{"push_tag":"lost","tags":["final"]}`), alice)
		require.NoError(t, err)
		assert.Equal(t, []string{"final"}, got.Tags)
		assert.NotNil(t, got.UpdatedAt)
	})

	t.Run("empty patch returns current document", func(t *testing.T) {
		got, err := svc.UpdatePost(ctx, post.ID, patchOf(t, `{}`), alice)
		require.NoError(t, err)
		assert.Equal(t, post.ID, got.ID)
	})

	t.Run("missing post is not found even for no-op patches", func(t *testing.T) {
		_, err := svc.UpdatePost(ctx, bson.NewObjectID(), patchOf(t, `{}`), alice)
		assert.True(t, errs.IsNotFound(err))

		_, err = svc.UpdatePost(ctx, bson.NewObjectID(), patchOf(t, `{"inc_views":1}`), alice)
		assert.True(t, errs.IsNotFound(err))
	})
}

func TestListPosts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.CreatePost(ctx, model.PostInput{Content: "go generics", Tags: []string{"go"}}, alice)
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, model.PostInput{Content: "mongo indexes", Tags: []string{"db"}}, alice)
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, model.PostInput{Content: "go and mongo", Tags: []string{"go", "db"}}, bob)
	require.NoError(t, err)

	posts, err := svc.ListPosts(ctx, model.ListQuery{Tag: "go"})
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, err = svc.ListPosts(ctx, model.ListQuery{Tag: "db", Author: "alice"})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "mongo indexes", posts[0].Content)

	posts, err = svc.ListPosts(ctx, model.ListQuery{Q: "generics"})
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	mine, err := svc.ListMyPosts(ctx, bob, 20, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "bob", mine[0].AuthorID)

	page, err := svc.ListPosts(ctx, model.ListQuery{Limit: 1, Skip: 1})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	none, err := svc.ListPosts(ctx, model.ListQuery{Tag: "rust"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	post, err := svc.CreatePost(ctx, model.PostInput{Content: "bye"}, alice)
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, post.ID, "first", bob)
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, post.ID))
	assert.True(t, errs.IsNotFound(svc.DeletePost(ctx, post.ID)))

	_, err = svc.GetPost(ctx, post.ID)
	assert.True(t, errs.IsNotFound(err))

	// 评论不级联删除
	comments, err := svc.ListComments(ctx, post.ID, 50)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestComments(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	post, err := svc.CreatePost(ctx, model.PostInput{Content: "hi"}, alice)
	require.NoError(t, err)

	t.Run("add and list", func(t *testing.T) {
		c, err := svc.AddComment(ctx, post.ID, "nice", bob)
		require.NoError(t, err)
		assert.Equal(t, "bob", c.UserID)
		assert.Equal(t, post.ID.Hex(), c.PostID)

		list, err := svc.ListComments(ctx, post.ID, 50)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, c.ID.Hex(), list[0].ID)
		assert.Equal(t, "nice", list[0].Content)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := svc.AddComment(ctx, bson.NewObjectID(), "nice", bob)
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("list on unknown post is empty", func(t *testing.T) {
		list, err := svc.ListComments(ctx, bson.NewObjectID(), 50)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("edit and delete", func(t *testing.T) {
		c, err := svc.AddComment(ctx, post.ID, "typo", bob)
		require.NoError(t, err)

		edited, err := svc.UpdateComment(ctx, c.ID, "fixed")
		require.NoError(t, err)
		assert.Equal(t, "fixed", edited.Content)
		assert.NotNil(t, edited.UpdatedAt)

		require.NoError(t, svc.DeleteComment(ctx, c.ID))
		assert.True(t, errs.IsNotFound(svc.DeleteComment(ctx, c.ID)))

		_, err = svc.UpdateComment(ctx, c.ID, "again")
		assert.True(t, errs.IsNotFound(err))
	})
}

// bob: like then love leaves a single love
func TestBobReactionScenario(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()
	post, err := svc.CreatePost(ctx, model.PostInput{Content: "hi"}, alice)
	require.NoError(t, err)

	require.NoError(t, svc.React(ctx, post.ID, model.ReactionLike, bob))
	require.NoError(t, svc.React(ctx, post.ID, model.ReactionLove, bob))

	counts, err := svc.ReactionCounts(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.ReactionCount{{Reaction: model.ReactionLove, Count: 1}}, counts)
	assert.Equal(t, 1, store.ReactionCount())

	require.NoError(t, svc.React(ctx, post.ID, model.ReactionLike, alice))
	counts, err = svc.ReactionCounts(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, counts, 2)

	require.NoError(t, svc.RemoveReaction(ctx, post.ID, bob))
	require.NoError(t, svc.RemoveReaction(ctx, post.ID, bob), "removing twice is still ok")

	counts, err = svc.ReactionCounts(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.ReactionCount{{Reaction: model.ReactionLike, Count: 1}}, counts)
}

func TestReactRejectsUnknownKind(t *testing.T) {
	svc, store := newTestService()

	err := svc.React(context.Background(), bson.NewObjectID(), model.ReactionKind("angry"), bob)

	assert.True(t, errs.IsValidation(err))
	assert.Equal(t, 0, store.ReactionCount())
}

func TestTopTags(t *testing.T) {
	ctx := context.Background()
	store := posttest.NewStore()
	posts := NewPostService(store.Posts(), store.Comments(), store.Reactions())
	analytics := NewAnalyticsService(store.Posts())

	for _, tags := range [][]string{{"go", "db"}, {"go"}, {"go", "web"}, {"db"}} {
		_, err := posts.CreatePost(ctx, model.PostInput{Content: "x", Tags: tags}, alice)
		require.NoError(t, err)
	}

	top, err := analytics.TopTags(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []model.TagCount{{Tag: "go", Count: 3}, {Tag: "db", Count: 2}}, top)
}

type MockPostRepository struct {
	mock.Mock
	posttestPosts
}

// posttestPosts 未被 mock 的方法委托给内存实现
type posttestPosts interface {
	Create(ctx context.Context, post *model.Post) (bson.ObjectID, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*model.Post, error)
	List(ctx context.Context, filter bson.M, limit, skip int) ([]model.Post, error)
	Update(ctx context.Context, id bson.ObjectID, fields bson.M) (*model.Post, error)
	Delete(ctx context.Context, id bson.ObjectID) (bool, error)
	TopTags(ctx context.Context, limit int) ([]model.TagCount, error)
	EnsureIndexes(ctx context.Context) error
}

func (m *MockPostRepository) ApplyOperator(ctx context.Context, id bson.ObjectID, update bson.M) error {
	return m.Called(ctx, id, update).Error(0)
}

func TestUpdatePostStopsOnStoreError(t *testing.T) {
	ctx := context.Background()
	store := posttest.NewStore()
	repo := &MockPostRepository{posttestPosts: store.Posts()}
	svc := NewPostService(repo, store.Comments(), store.Reactions())
	id := bson.NewObjectID()

	repo.On("ApplyOperator", ctx, id, bson.M{"$addToSet": bson.M{"tags": "a"}}).Return(errors.New("write concern error"))

	_, err := svc.UpdatePost(ctx, id, patchOf(t, `{"push_tag":"a","inc_views":1}`), alice)

	assert.EqualError(t, err, "write concern error")
	repo.AssertNumberOfCalls(t, "ApplyOperator", 1)
}
