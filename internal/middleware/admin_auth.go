// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"parentfacile-go/internal/config"
	"parentfacile-go/pkg/token"
)

// ContextAdminKey 是认证通过后存入 Gin 上下文的管理员 claims 的键。
const ContextAdminKey = "admin"

// ExtractToken 按投递策略从请求中提取凭证字符串。
// 两种策略同时启用时 Cookie 优先于 Authorization 头。
func ExtractToken(c *gin.Context, strategy config.TokenStrategy, cookieName string) string {
	if strategy.UseCookie() {
		if cookieToken, err := c.Cookie(cookieName); err == nil && cookieToken != "" {
			return cookieToken
		}
	}
	if strategy.UseBearer() {
		const bearerPrefix = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, bearerPrefix) {
			return strings.TrimPrefix(authHeader, bearerPrefix)
		}
	}
	return ""
}

// AdminAuth 创建管理员认证门禁中间件。
// 它提取凭证、验证签名/有效期/角色声明，并将 claims 存入上下文。
// 所有失败路径统一返回 401，内部文案区分原因。
func AdminAuth(jwtManager *token.JWTManager, strategy config.TokenStrategy, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := ExtractToken(c, strategy, cookieName)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Non autorisé (token manquant)"})
			return
		}

		claims, err := jwtManager.VerifyToken(raw)
		if err != nil {
			// 签名有效但角色不是 admin 的 token 同样拒绝
			message := "Token invalide ou expiré"
			if errors.Is(err, token.ErrNotAdmin) {
				message = "Non autorisé (rôle invalide)"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "message": message})
			return
		}

		// 将管理员身份存入 context，供后续处理函数使用
		c.Set(ContextAdminKey, claims)
		c.Next()
	}
}
