package handler

import (
	"net/http"

	"github.com/aknur111/blog-web-site/internal/domain/tag/model"
	"github.com/aknur111/blog-web-site/internal/domain/tag/service"
	"github.com/aknur111/blog-web-site/pkg/response"
	"github.com/aknur111/blog-web-site/pkg/utils"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	service service.TagService
}

func NewTagHandler(s service.TagService) *TagHandler {
	return &TagHandler{service: s}
}

// CreateTag 创建标签
// @Router /tags [post]
func (h *TagHandler) CreateTag(c *gin.Context) {
	var input model.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tag, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, tag)
}

// ListTags 标签列表
// @Router /tags [get]
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.service.List(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, tags)
}

// GetTag 标签详情
// @Router /tags/{id} [get]
func (h *TagHandler) GetTag(c *gin.Context) {
	id, err := utils.ParseNamedID(c.Param("id"), "tag_id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	tag, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, tag)
}

// UpdateTag 更新标签
// @Router /tags/{id} [put]
func (h *TagHandler) UpdateTag(c *gin.Context) {
	id, err := utils.ParseNamedID(c.Param("id"), "tag_id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	var input model.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tag, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, tag)
}

// DeleteTag 删除标签
// @Router /tags/{id} [delete]
func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, err := utils.ParseNamedID(c.Param("id"), "tag_id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id.Hex()})
}
