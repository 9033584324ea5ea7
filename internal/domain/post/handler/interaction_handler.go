package handler

import (
	"net/http"

	"github.com/aknur111/blog-web-site/internal/domain/post/model"
	"github.com/aknur111/blog-web-site/internal/domain/post/service"
	"github.com/aknur111/blog-web-site/pkg/response"
	"github.com/aknur111/blog-web-site/pkg/utils"

	"github.com/gin-gonic/gin"
)

// InteractionHandler 评论与反应
type InteractionHandler struct {
	service service.PostService
}

func NewInteractionHandler(s service.PostService) *InteractionHandler {
	return &InteractionHandler{service: s}
}

type limitQuery struct {
	Limit *int `form:"limit"`
}

type reactionQuery struct {
	ReactionType string `form:"reaction_type" binding:"required"`
}

// AddComment 发表评论
// @Summary 发表评论
// @Tags Comment
// @Accept json
// @Produce json
// @Param id path string true "文章ID"
// @Param input body model.CommentInput true "评论内容"
// @Success 201 {object} model.Comment
// @Router /posts/{id}/comments [post]
func (h *InteractionHandler) AddComment(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "post_id")
	if !ok {
		return
	}

	var input model.CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), postID, input.Content, actor)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, comment)
}

// ListComments 评论列表，按时间倒序
// @Router /posts/{id}/comments [get]
func (h *InteractionHandler) ListComments(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		return
	}

	var q limitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	limit, err := utils.CommentPage.ResolveLimit(q.Limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	comments, err := h.service.ListComments(c.Request.Context(), postID, limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, comments)
}

// UpdateComment 修改评论内容
// @Router /comments/{id} [put]
func (h *InteractionHandler) UpdateComment(c *gin.Context) {
	id, ok := pathID(c, "comment_id")
	if !ok {
		return
	}

	var input model.CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.service.UpdateComment(c.Request.Context(), id, input.Content)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, comment)
}

// DeleteComment 删除评论
// @Router /comments/{id} [delete]
func (h *InteractionHandler) DeleteComment(c *gin.Context) {
	id, ok := pathID(c, "comment_id")
	if !ok {
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// React 对文章做出反应，同一用户重复调用会覆盖
// @Summary 文章反应
// @Tags Reaction
// @Param id path string true "文章ID"
// @Param reaction_type query string true "like | dislike | love"
// @Success 200 {object} map[string]interface{}
// @Router /posts/{id}/reactions [post]
func (h *InteractionHandler) React(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "post_id")
	if !ok {
		return
	}

	var q reactionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	kind, err := model.ParseReactionKind(q.ReactionType)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.service.React(c.Request.Context(), postID, kind, actor); err != nil {
		response.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "reaction": kind})
}

// ReactionCounts 按类型统计反应
// @Router /posts/{id}/reactions [get]
func (h *InteractionHandler) ReactionCounts(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		return
	}

	counts, err := h.service.ReactionCounts(c.Request.Context(), postID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, counts)
}

// RemoveReaction 取消反应，不存在也返回成功
// @Router /posts/{id}/reactions [delete]
func (h *InteractionHandler) RemoveReaction(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "post_id")
	if !ok {
		return
	}

	if err := h.service.RemoveReaction(c.Request.Context(), postID, actor); err != nil {
		response.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
