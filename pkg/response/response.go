package response

import (
	"net/http"

	"github.com/aknur111/blog-web-site/pkg/errs"
	"github.com/aknur111/blog-web-site/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一错误响应结构
type Response struct {
	Code    int         `json:"code"`    // 业务码
	Message string      `json:"message"` // 提示信息
	Data    interface{} `json:"data"`    // 数据
}

// Success 成功响应，直接返回资源本身
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.JSON(httpCode, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// HandleError maps a service error to its HTTP status. Unknown errors are
// logged and reported as 500 without leaking their text.
func HandleError(c *gin.Context, err error) {
	switch {
	case errs.IsInvalidID(err):
		Error(c, http.StatusBadRequest, ErrInvalidID, err.Error())
	case errs.IsUnauthorized(err):
		Error(c, http.StatusUnauthorized, ErrUnauthorized, err.Error())
	case errs.IsNotFound(err):
		Error(c, http.StatusNotFound, ErrNotFound, err.Error())
	case errs.IsValidation(err):
		Error(c, http.StatusUnprocessableEntity, ErrValidation, err.Error())
	case errs.IsConflict(err):
		Error(c, http.StatusConflict, ErrConflict, err.Error())
	default:
		logger.Log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		Error(c, http.StatusInternalServerError, ErrServerInternal, "internal server error")
	}
	c.Abort()
}

// BadRequest 请求体无法解析
func BadRequest(c *gin.Context, msg string) {
	Error(c, http.StatusUnprocessableEntity, ErrInvalidParam, msg)
	c.Abort()
}
