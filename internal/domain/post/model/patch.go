package model

import (
	"bytes"
	"encoding/json"

	"github.com/aknur111/blog-web-site/pkg/errs"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// PostPatch is the field update set of a post update. Set holds plain fields
// written with $set; the tag and view operators are applied before it.
type PostPatch struct {
	Set      bson.M
	PushTag  *string
	PullTag  *string
	IncViews *int64
}

var patchStringFields = []string{"content", "media_url", "category_id", "status"}

// ParsePostPatch 从原始 JSON 对象构造更新集
// 缺失的键与 null 都视为未提供，未知键忽略
func ParsePostPatch(raw map[string]json.RawMessage) (PostPatch, error) {
	patch := PostPatch{Set: bson.M{}}

	present := func(key string) (json.RawMessage, bool) {
		v, ok := raw[key]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return nil, false
		}
		return v, true
	}

	for _, key := range patchStringFields {
		v, ok := present(key)
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return PostPatch{}, errs.Validation("%s must be a string", key)
		}
		patch.Set[key] = s
	}

	if v, ok := present("tags"); ok {
		var tags []string
		if err := json.Unmarshal(v, &tags); err != nil {
			return PostPatch{}, errs.Validation("tags must be a list of strings")
		}
		if tags == nil {
			tags = []string{}
		}
		patch.Set["tags"] = tags
	}

	if v, ok := present("push_tag"); ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return PostPatch{}, errs.Validation("push_tag must be a string")
		}
		patch.PushTag = &s
	}

	if v, ok := present("pull_tag"); ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return PostPatch{}, errs.Validation("pull_tag must be a string")
		}
		patch.PullTag = &s
	}

	if v, ok := present("inc_views"); ok {
		var n int64
		if err := json.Unmarshal(v, &n); err != nil {
			return PostPatch{}, errs.Validation("inc_views must be an integer")
		}
		patch.IncViews = &n
	}

	return patch, nil
}

// Operations returns the operator updates in application order:
// $addToSet, then $pull, then $inc.
func (p PostPatch) Operations() []bson.M {
	var ops []bson.M
	if p.PushTag != nil {
		ops = append(ops, bson.M{"$addToSet": bson.M{"tags": *p.PushTag}})
	}
	if p.PullTag != nil {
		ops = append(ops, bson.M{"$pull": bson.M{"tags": *p.PullTag}})
	}
	if p.IncViews != nil {
		ops = append(ops, bson.M{"$inc": bson.M{"views": *p.IncViews}})
	}
	return ops
}

// Empty 没有任何需要写入的内容
func (p PostPatch) Empty() bool {
	return len(p.Set) == 0 && p.PushTag == nil && p.PullTag == nil && p.IncViews == nil
}
