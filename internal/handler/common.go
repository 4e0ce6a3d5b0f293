package handler

import (
	"errors"
	"net/http"
	"strconv"

	"lifelog/internal/util"

	"github.com/gin-gonic/gin"
)

// isTooLarge 判断是否因请求体超过上限而失败
func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// badRequest 处理请求解析错误，超限时返回 413
func badRequest(c *gin.Context, err error, msg string) {
	if isTooLarge(err) {
		util.Error(c, http.StatusRequestEntityTooLarge, util.CodeTooLarge, "request body too large")
		return
	}
	util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, msg)
}

// queryInt 读取整数查询参数，缺失或非法时返回 def
func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// paramID 解析路径中的正整数 id
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
