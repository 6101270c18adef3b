// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"parentfacile-go/internal/config"
	"parentfacile-go/internal/middleware"
	"parentfacile-go/internal/service"
	"parentfacile-go/pkg/log"
	"parentfacile-go/pkg/token"
)

// AdminAuthHandler 负责处理管理员认证相关的 API 请求。
type AdminAuthHandler struct {
	authSvc      service.AuthService
	jwtManager   *token.JWTManager
	strategy     config.TokenStrategy
	cookieName   string
	cookieSecure bool
	cookieDomain string
}

// NewAdminAuthHandler 创建一个新的 AdminAuthHandler 实例。
func NewAdminAuthHandler(authSvc service.AuthService, jwtManager *token.JWTManager, cfg config.AdminConfig) *AdminAuthHandler {
	return &AdminAuthHandler{
		authSvc:      authSvc,
		jwtManager:   jwtManager,
		strategy:     config.ParseTokenStrategy(cfg.TokenStrategy),
		cookieName:   cfg.CookieName,
		cookieSecure: cfg.CookieSecure,
		cookieDomain: cfg.CookieDomain,
	}
}

// Strategy 返回启动时解析好的凭证投递策略（路由装配用）。
func (h *AdminAuthHandler) Strategy() config.TokenStrategy {
	return h.strategy
}

// CookieName 返回配置的 Cookie 名（路由装配用）。
func (h *AdminAuthHandler) CookieName() string {
	return h.cookieName
}

// LoginRequest 定义了管理员登录 API 的请求体结构。
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=1"`
}

// Login 处理管理员登录请求。
// 成功后按投递策略写入 HttpOnly Cookie 和/或在响应体中返回 token。
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Login: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "errors": err.Error()})
		return
	}

	tokenString, admin, err := h.authSvc.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// 邮箱未知与密码错误统一返回同一文案
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": err.Error()})
			return
		}
		log.Error("Login: failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "Erreur serveur"})
		return
	}

	if h.strategy.UseCookie() {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(h.cookieName, tokenString, int(h.jwtManager.TokenDuration().Seconds()), "/", h.cookieDomain, h.cookieSecure, true)
	}

	resp := gin.H{
		"ok":      true,
		"message": "Connexion réussie",
		"admin":   gin.H{"id": admin.ID, "email": admin.Email},
	}
	// 纯 Cookie 策略下 token 不出现在响应体中
	if h.strategy != config.StrategyCookieOnly {
		resp["token"] = tokenString
	}

	log.Infof("Admin '%s' logged in successfully", admin.Email)
	c.JSON(http.StatusOK, resp)
}

// Me 返回当前管理员身份。身份由认证中间件注入到上下文中。
func (h *AdminAuthHandler) Me(c *gin.Context) {
	claimsValue, exists := c.Get(middleware.ContextAdminKey)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "Impossible de récupérer la session"})
		return
	}
	claims, ok := claimsValue.(*token.AdminClaims)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "Session invalide"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"admin": gin.H{"id": claims.AdminID, "email": claims.Email},
	})
}

// Logout 处理管理员登出。
// Cookie 策略下清除 Cookie；bearer token 无服务端吊销，过期前仍有效。
func (h *AdminAuthHandler) Logout(c *gin.Context) {
	if h.strategy.UseCookie() {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(h.cookieName, "", -1, "/", h.cookieDomain, h.cookieSecure, true)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Déconnecté"})
}
