package handler

import (
	"net/http"

	"github.com/aknur111/blog-web-site/internal/domain/user/model"
	"github.com/aknur111/blog-web-site/internal/domain/user/service"
	"github.com/aknur111/blog-web-site/pkg/response"
	"github.com/aknur111/blog-web-site/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	service service.UserService
}

// NewUserHandler 创建处理器
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register 处理注册请求，参数来自 query string
func (h *UserHandler) Register(c *gin.Context) {
	var input model.RegisterInput
	if err := c.ShouldBindQuery(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Register(c.Request.Context(), input.Username, input.Email)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, result)
}

// GetUsers 获取用户列表
func (h *UserHandler) GetUsers(c *gin.Context) {
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	limit, skip, err := page.Resolve(utils.UserPage)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	users, err := h.service.GetUsers(c.Request.Context(), limit, skip)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, users)
}

// GetUser 获取单个用户
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, user)
}

// UpdateUser 更新用户
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	var input model.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), id, input)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, user)
}

// DeleteUser 删除用户
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id.Hex()})
}
