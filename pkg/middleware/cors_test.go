package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// TestCORS はCORSミドルウェアを検証する。
func TestCORS(t *testing.T) {
	t.Parallel()

	newRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(CORS([]string{"http://localhost:5173"}))
		router.GET("/api/recipes/trending", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		return router
	}

	t.Run("許可されたオリジンにCORSヘッダーが設定されること", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/api/recipes/trending", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
			t.Errorf("Access-Control-Allow-Origin = %q", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Headers"); got != "Authorization, Content-Type, X-Request-ID" {
			t.Errorf("Access-Control-Allow-Headers = %q", got)
		}
	})

	t.Run("許可されていないオリジンにはCORSヘッダーを設定しないこと", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/api/recipes/trending", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want empty", got)
		}
	})

	t.Run("CORSヘッダーを設定したことを後続のハンドラに伝えること", func(t *testing.T) {
		t.Parallel()

		var applied []bool
		router := gin.New()
		router.Use(CORS([]string{"http://localhost:5173"}))
		router.GET("/api/recipes", func(c *gin.Context) {
			applied = append(applied, CORSApplied(c))
			c.Status(http.StatusOK)
		})

		for _, origin := range []string{"http://localhost:5173", "https://evil.example.com", ""} {
			req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
			if origin != "" {
				req.Header.Set("Origin", origin)
			}
			router.ServeHTTP(httptest.NewRecorder(), req)
		}

		want := []bool{true, false, false}
		for i := range want {
			if applied[i] != want[i] {
				t.Errorf("CORSApplied()[%d] = %v, want %v", i, applied[i], want[i])
			}
		}
	})

	t.Run("OPTIONSリクエストに204を返すこと", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodOptions, "/api/recipes/trending", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusNoContent)
		}
	})
}

// TestIsCORSHeader はCORSヘッダーの判定を検証する。
func TestIsCORSHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{"Allow-Originを判定すること", "Access-Control-Allow-Origin", true},
		{"小文字でも判定すること", "access-control-allow-credentials", true},
		{"Varyを判定すること", "vary", true},
		{"それ以外のヘッダーは対象外であること", "Content-Type", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsCORSHeader(tt.header); got != tt.want {
				t.Errorf("IsCORSHeader(%q) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}
