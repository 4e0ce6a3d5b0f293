package util

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 通用返回结构里的 data 使用 map
type Response map[string]interface{}

// 业务错误码
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeConflict     = 40901
	CodeNotFound     = 40401
	CodeTooLarge     = 41301
	CodeServerErr    = 50001
	CodeUnavailable  = 50301
)

// Success 统一成功返回，字段平铺在顶层并带 success=true
func Success(c *gin.Context, httpStatus int, data Response) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(httpStatus, body)
}

// Error 统一错误返回
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"success": false,
		"code":    code,
		"error":   msg,
	})
}

type statusCoder interface {
	StatusCode() int
}

// businessCoder 可选：错误自带业务码时优先使用
type businessCoder interface {
	BusinessCode() int
}

// ErrorFrom 根据错误类型选择 HTTP 状态码；无法识别的错误使用 fallback，
// 消息为原始错误文本。
func ErrorFrom(c *gin.Context, err error, fallback int) {
	status := fallback
	var sc statusCoder
	if errors.As(err, &sc) {
		status = sc.StatusCode()
		// 写操作的存储错误按原接口返回 400
		if status == http.StatusInternalServerError && fallback == http.StatusBadRequest {
			status = fallback
		}
	}
	code := codeFor(status)
	var bc businessCoder
	if errors.As(err, &bc) {
		code = bc.BusinessCode()
	}
	Error(c, status, code, err.Error())
}

func codeFor(status int) int {
	switch status {
	case http.StatusBadRequest:
		return CodeInvalidParam
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusRequestEntityTooLarge:
		return CodeTooLarge
	case http.StatusServiceUnavailable:
		return CodeUnavailable
	default:
		return CodeServerErr
	}
}
