/*
 * @module api/middleware/apikey_auth
 * @description API密钥认证中间件
 * @architecture RESTful API架构 - 中间件层
 * @documentReference docs/security.md
 * @stateFlow 读取 X-API-Key 头 -> 接入服务校验 -> 放行或401
 * @rules AUTH_REQUIRED 未开启时中间件直接放行,便于本地开发
 * @dependencies github.com/go-chi/render
 * @refs service/access/access_service.go
 */
package middleware

import (
	"net/http"
	"os"

	"posmdf-service/service/access"

	"github.com/go-chi/render"
)

// APIKeyAuth 返回API密钥认证中间件
func APIKeyAuth(accessService *access.Service) func(http.Handler) http.Handler {
	required := os.Getenv("AUTH_REQUIRED") == "true"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !required {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("X-API-Key")
			if key == "" {
				unauthorized(w, r, "missing X-API-Key header")
				return
			}
			if _, err := accessService.VerifyKey(r.Context(), key); err != nil {
				unauthorized(w, r, "invalid api key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, map[string]interface{}{
		"status": http.StatusUnauthorized,
		"msg":    msg,
		"data":   nil,
	})
}
