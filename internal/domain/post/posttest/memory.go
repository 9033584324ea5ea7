// Package posttest provides in-memory post, comment and reaction
// repositories that follow the same update semantics as the MongoDB ones.
package posttest

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aknur111/blog-web-site/internal/domain/post/model"
	"github.com/aknur111/blog-web-site/internal/domain/post/repository"
	"github.com/aknur111/blog-web-site/pkg/errs"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Store 共享同一把锁的三个内存集合
type Store struct {
	mu        sync.Mutex
	posts     map[bson.ObjectID]model.Post
	comments  map[bson.ObjectID]model.Comment
	reactions map[string]model.Reaction
	clock     func() time.Time
}

func NewStore() *Store {
	return &Store{
		posts:     make(map[bson.ObjectID]model.Post),
		comments:  make(map[bson.ObjectID]model.Comment),
		reactions: make(map[string]model.Reaction),
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Posts() repository.PostRepository         { return postRepo{s} }
func (s *Store) Comments() repository.CommentRepository   { return commentRepo{s} }
func (s *Store) Reactions() repository.ReactionRepository { return reactionRepo{s} }

// ReactionCount 当前存储的反应条数
func (s *Store) ReactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reactions)
}

func clonePost(p model.Post) *model.Post {
	p.Tags = slices.Clone(p.Tags)
	p.Normalize()
	return &p
}

type postRepo struct{ s *Store }

func (r postRepo) Create(ctx context.Context, post *model.Post) (bson.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	post.ID = bson.NewObjectID()
	r.s.posts[post.ID] = *clonePost(*post)
	return post.ID, nil
}

func (r postRepo) GetByID(ctx context.Context, id bson.ObjectID) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, errs.NotFound("post")
	}
	return clonePost(p), nil
}

func matches(p model.Post, filter bson.M) bool {
	for key, want := range filter {
		switch key {
		case "tags":
			if !slices.Contains(p.Tags, want.(string)) {
				return false
			}
		case "author_id":
			if p.AuthorID != want.(string) {
				return false
			}
		case "$text":
			search := strings.ToLower(want.(bson.M)["$search"].(string))
			content := strings.ToLower(p.Content)
			found := false
			for _, term := range strings.Fields(search) {
				if strings.Contains(content, term) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			panic(fmt.Sprintf("posttest: unsupported filter key %q", key))
		}
	}
	return true
}

func (r postRepo) List(ctx context.Context, filter bson.M, limit, skip int) ([]model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.Post, 0)
	for _, p := range r.s.posts {
		if matches(p, filter) {
			out = append(out, *clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if skip >= len(out) {
		return []model.Post{}, nil
	}
	out = out[skip:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r postRepo) ApplyOperator(ctx context.Context, id bson.ObjectID, update bson.M) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil
	}
	for op, arg := range update {
		fields := arg.(bson.M)
		switch op {
		case "$addToSet":
			tag := fields["tags"].(string)
			if !slices.Contains(p.Tags, tag) {
				p.Tags = append(slices.Clone(p.Tags), tag)
			}
		case "$pull":
			tag := fields["tags"].(string)
			p.Tags = slices.DeleteFunc(slices.Clone(p.Tags), func(t string) bool { return t == tag })
		case "$inc":
			p.Views += fields["views"].(int64)
		default:
			return fmt.Errorf("posttest: unsupported operator %q", op)
		}
	}
	r.s.posts[id] = p
	return nil
}

func (r postRepo) Update(ctx context.Context, id bson.ObjectID, fields bson.M) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, errs.NotFound("post")
	}
	if len(fields) == 0 {
		return clonePost(p), nil
	}

	for key, v := range fields {
		switch key {
		case "content":
			p.Content = v.(string)
		case "media_url":
			p.MediaURL = v.(string)
		case "category_id":
			p.CategoryID = v.(string)
		case "status":
			p.Status = v.(string)
		case "tags":
			p.Tags = slices.Clone(v.([]string))
		default:
			return nil, fmt.Errorf("posttest: unsupported field %q", key)
		}
	}
	now := r.s.clock()
	p.UpdatedAt = &now
	r.s.posts[id] = p
	return clonePost(p), nil
}

func (r postRepo) Delete(ctx context.Context, id bson.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return false, nil
	}
	delete(r.s.posts, id)
	return true, nil
}

func (r postRepo) TopTags(ctx context.Context, limit int) ([]model.TagCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := make(map[string]int64)
	for _, p := range r.s.posts {
		for _, t := range p.Tags {
			counts[t]++
		}
	}
	out := make([]model.TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, model.TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r postRepo) EnsureIndexes(ctx context.Context) error { return nil }

type commentRepo struct{ s *Store }

func (r commentRepo) Create(ctx context.Context, c *model.Comment) (bson.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = bson.NewObjectID()
	r.s.comments[c.ID] = *c
	return c.ID, nil
}

func (r commentRepo) ListByPost(ctx context.Context, postID string, limit int) ([]model.CommentView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []model.Comment
	for _, c := range r.s.comments {
		if c.PostID == postID {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	if limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]model.CommentView, 0, len(matched))
	for _, c := range matched {
		out = append(out, c.View())
	}
	return out, nil
}

func (r commentRepo) UpdateContent(ctx context.Context, id bson.ObjectID, content string) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, errs.NotFound("comment")
	}
	now := r.s.clock()
	c.Content = content
	c.UpdatedAt = &now
	r.s.comments[id] = c
	return &c, nil
}

func (r commentRepo) Delete(ctx context.Context, id bson.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return false, nil
	}
	delete(r.s.comments, id)
	return true, nil
}

func (r commentRepo) EnsureIndexes(ctx context.Context) error { return nil }

type reactionRepo struct{ s *Store }

func reactionKey(postID, userID string) string {
	return postID + "/" + userID
}

func (r reactionRepo) Upsert(ctx context.Context, postID, userID string, kind model.ReactionKind) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := reactionKey(postID, userID)
	existing, ok := r.s.reactions[key]
	if !ok {
		existing = model.Reaction{ID: bson.NewObjectID(), PostID: postID, UserID: userID}
	}
	existing.ReactionType = kind
	existing.CreatedAt = r.s.clock()
	r.s.reactions[key] = existing
	return nil
}

func (r reactionRepo) Delete(ctx context.Context, postID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.reactions, reactionKey(postID, userID))
	return nil
}

func (r reactionRepo) Counts(ctx context.Context, postID string) ([]model.ReactionCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := make(map[model.ReactionKind]int64)
	for _, re := range r.s.reactions {
		if re.PostID == postID {
			counts[re.ReactionType]++
		}
	}
	out := make([]model.ReactionCount, 0, len(counts))
	for kind, n := range counts {
		out = append(out, model.ReactionCount{Reaction: kind, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

func (r reactionRepo) EnsureIndexes(ctx context.Context) error { return nil }
