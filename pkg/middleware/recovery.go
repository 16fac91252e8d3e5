package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/kooking/pkg/logs"
)

// Recovery はパニックからの回復を行うGinミドルウェアを返す。
// 応答にはX-Request-IDを含めるので、クライアントのログと突き合わせられる。
// スタックトレースは詳細ログが有効なときだけ出力する。
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			requestID := c.GetHeader("X-Request-ID")
			logs.Printf("[PANIC] %s %s request_id=%s: %v", c.Request.Method, c.Request.URL.Path, requestID, r)
			logs.Printv("[PANIC] %s", debug.Stack())

			if c.Writer.Written() {
				c.Abort()
				return
			}
			body := gin.H{"message": "内部サーバーエラーが発生しました"}
			if requestID != "" {
				c.Header("X-Request-ID", requestID)
				body["requestId"] = requestID
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, body)
		}()
		c.Next()
	}
}
