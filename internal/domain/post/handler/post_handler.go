package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aknur111/blog-web-site/internal/domain/post/model"
	"github.com/aknur111/blog-web-site/internal/domain/post/service"
	"github.com/aknur111/blog-web-site/internal/pkg/identity"
	"github.com/aknur111/blog-web-site/pkg/errs"
	"github.com/aknur111/blog-web-site/pkg/response"
	"github.com/aknur111/blog-web-site/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type PostHandler struct {
	service service.PostService
}

func NewPostHandler(s service.PostService) *PostHandler {
	return &PostHandler{service: s}
}

// actorFrom 受保护路由上由 AuthMiddleware 写入
func actorFrom(c *gin.Context) (*identity.Identity, bool) {
	actor, ok := identity.From(c)
	if !ok {
		response.HandleError(c, errs.Unauthorized("missing token"))
		return nil, false
	}
	return actor, true
}

// pathID 解析路径中的 ID，失败时直接写 400
func pathID(c *gin.Context, name string) (bson.ObjectID, bool) {
	id, err := utils.ParseNamedID(c.Param("id"), name)
	if err != nil {
		response.HandleError(c, err)
		return bson.ObjectID{}, false
	}
	return id, true
}

// CreatePost 发布文章
// @Summary 发布文章
// @Tags Post
// @Accept json
// @Produce json
// @Param input body model.PostInput true "文章内容"
// @Success 201 {object} model.Post
// @Router /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var input model.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), input, actor)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, post)
}

// ListPosts 文章列表
// @Summary 文章列表
// @Tags Post
// @Produce json
// @Param tag query string false "标签"
// @Param author query string false "作者"
// @Param q query string false "全文搜索"
// @Param limit query int false "1-100, 默认 20"
// @Param skip query int false "默认 0"
// @Success 200 {array} model.Post
// @Router /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	var q model.ListQuery
	var page utils.Pagination
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	limit, skip, err := page.Resolve(utils.PostPage)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	q.Limit, q.Skip = limit, skip

	posts, err := h.service.ListPosts(c.Request.Context(), q)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, posts)
}

// ListMyPosts 当前用户的文章
// @Router /posts/me [get]
func (h *PostHandler) ListMyPosts(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	limit, skip, err := page.Resolve(utils.PostPage)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	posts, err := h.service.ListMyPosts(c.Request.Context(), actor, limit, skip)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, posts)
}

// GetPost 文章详情
// @Summary 文章详情
// @Tags Post
// @Produce json
// @Param id path string true "文章ID"
// @Success 200 {object} model.Post
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, post)
}

// UpdatePost 部分更新
// body 支持 content, media_url, category_id, status, tags, push_tag, pull_tag, inc_views
// @Router /posts/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		response.BadRequest(c, "request body must be a JSON object")
		return
	}
	patch, err := model.ParsePostPatch(raw)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	post, err := h.service.UpdatePost(c.Request.Context(), id, patch, actor)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, post)
}

// DeletePost 删除文章
// @Router /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}
