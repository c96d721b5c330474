package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookservice/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookservice/pkg/errors"
	"github.com/xiebiao/bookservice/pkg/response"
)

// queryID 解析?id=参数,失败时直接写出错误响应
func queryID(c *gin.Context) (uint, bool) {
	raw := c.Query("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.Error(c, apperrors.ErrBindError.WithMessagef("Failed parse id: %q", raw))
		return 0, false
	}
	return uint(id), true
}

// bindJSON 绑定并校验请求体,失败时直接写出错误响应
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, dto.BindError(err))
		return false
	}
	return true
}

// rendered 输出视图渲染结果或错误
func rendered(c *gin.Context, body []byte, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Rendered(c, body)
}

// done 无返回数据的写操作
func done(c *gin.Context, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
