package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookservice/pkg/errors"
)

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码（非HTTP状态码），方便客户端判断错误类型
// 2. Message是用户友好的提示信息
// 3. Data是业务数据，成功时返回；校验失败时是字段错误列表
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Rendered 成功响应,data是视图渲染好的JSON(原样嵌入,不再二次序列化)
func Rendered(c *gin.Context, body []byte) {
	Success(c, json.RawMessage(body))
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	body, err := bookService.FindByID(ctx, id)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	// 记录详细错误到日志（包含内部错误,不返回给客户端）
	if appErr.Err != nil {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"code", appErr.Code,
			"message", appErr.Message,
			"path", c.FullPath(),
			"error", appErr.Err,
		)
	}

	var data interface{}
	if len(appErr.Fields) > 0 {
		data = appErr.Fields
	}

	c.JSON(http.StatusOK, Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Data:    data,
	})
}
