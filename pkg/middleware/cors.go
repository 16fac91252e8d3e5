package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// corsAppliedKey はCORSヘッダーを設定済みであることを示すコンテキストキー。
const corsAppliedKey = "cors_applied"

// corsHeaders はCORSミドルウェアが応答に設定するヘッダー。
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "",
	"Access-Control-Allow-Methods": "GET, POST, PUT, DELETE, OPTIONS",
	"Access-Control-Allow-Headers": "Authorization, Content-Type, X-Request-ID",
	"Access-Control-Max-Age":       "86400",
	"Vary":                         "Origin",
}

// CORS は指定されたオリジンからのクロスオリジンリクエストを許可するGinミドルウェアを返す。
// 許可したリクエストでは後続のハンドラがCORSApplied で判定できるよう印を付ける。
// OPTIONSは後続へ渡さず204で終える。
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := allowed[origin]; ok && origin != "" {
			for k, v := range corsHeaders {
				if v == "" {
					v = origin
				}
				c.Header(k, v)
			}
			c.Set(corsAppliedKey, true)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// CORSApplied はこのリクエストにCORSミドルウェアがヘッダーを設定したかを返す。
func CORSApplied(c *gin.Context) bool {
	return c.GetBool(corsAppliedKey)
}

// IsCORSHeader はCORSミドルウェアが管理するヘッダーかどうかを返す。
// 転送先が返す同名ヘッダーと重複させないために使う。
func IsCORSHeader(name string) bool {
	name = http.CanonicalHeaderKey(name)
	if _, ok := corsHeaders[name]; ok {
		return true
	}
	return strings.HasPrefix(name, "Access-Control-")
}
