package middleware

import (
	"net/http"

	"lifelog/internal/util"

	"github.com/gin-gonic/gin"
)

// BodyLimit 限制请求体大小，超过 max 字节时读取会失败
func BodyLimit(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > max {
			util.Error(c, http.StatusRequestEntityTooLarge, util.CodeTooLarge, "request body too large")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		}
		c.Next()
	}
}
