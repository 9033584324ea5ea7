package handler

import (
	"github.com/aknur111/blog-web-site/internal/domain/post/service"
	"github.com/aknur111/blog-web-site/pkg/response"
	"github.com/aknur111/blog-web-site/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	service service.AnalyticsService
}

func NewAnalyticsHandler(s service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: s}
}

// TopTags 热门标签
// @Summary 热门标签
// @Tags Analytics
// @Produce json
// @Param limit query int false "1-50, 默认 10"
// @Success 200 {array} model.TagCount
// @Router /analytics/top-tags [get]
func (h *AnalyticsHandler) TopTags(c *gin.Context) {
	var q limitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	limit, err := utils.TopTagsPage.ResolveLimit(q.Limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	tags, err := h.service.TopTags(c.Request.Context(), limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, tags)
}
