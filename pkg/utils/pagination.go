package utils

import "github.com/aknur111/blog-web-site/pkg/errs"

// Pagination 分页请求参数 (skip/limit)
// 使用指针区分 "未传" 与 "传了 0"
type Pagination struct {
	Limit *int `json:"limit" form:"limit"`
	Skip  *int `json:"skip" form:"skip"`
}

// Bounds limit 的默认值与上限
type Bounds struct {
	Default int
	Max     int
}

var (
	PostPage    = Bounds{Default: 20, Max: 100}
	CommentPage = Bounds{Default: 50, Max: 200}
	TopTagsPage = Bounds{Default: 10, Max: 50}
	UserPage    = Bounds{Default: 20, Max: 100}
)

// ResolveLimit returns Default for a missing limit and rejects values outside [1, Max].
func (b Bounds) ResolveLimit(limit *int) (int, error) {
	if limit == nil {
		return b.Default, nil
	}
	if *limit < 1 || *limit > b.Max {
		return 0, errs.Validation("limit must be between 1 and %d", b.Max)
	}
	return *limit, nil
}

// Clamp 服务层的兜底处理
func (b Bounds) Clamp(limit int) int {
	if limit <= 0 {
		return b.Default
	}
	if limit > b.Max {
		return b.Max
	}
	return limit
}

// Resolve 校验并返回 limit 与 skip
func (p Pagination) Resolve(b Bounds) (limit, skip int, err error) {
	if limit, err = b.ResolveLimit(p.Limit); err != nil {
		return 0, 0, err
	}
	if p.Skip != nil {
		if *p.Skip < 0 {
			return 0, 0, errs.Validation("skip must be greater than or equal to 0")
		}
		skip = *p.Skip
	}
	return limit, skip, nil
}
