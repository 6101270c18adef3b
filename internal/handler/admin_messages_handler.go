// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"parentfacile-go/internal/service"
	"parentfacile-go/pkg/log"
)

// AdminMessagesHandler 负责处理后台消息收件箱的 API 请求（只读）。
type AdminMessagesHandler struct {
	msgSvc service.MessageService
}

// NewAdminMessagesHandler 创建一个新的 AdminMessagesHandler 实例。
func NewAdminMessagesHandler(msgSvc service.MessageService) *AdminMessagesHandler {
	return &AdminMessagesHandler{msgSvc: msgSvc}
}

// Recent 返回最近的 N 条消息（默认 3，钳制在 1..100）。
func (h *AdminMessagesHandler) Recent(c *gin.Context) {
	limit := 3
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	msgs, err := h.msgSvc.Recent(limit)
	if err != nil {
		log.Error("Admin messages: query failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "Erreur serveur (messages)"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "messages": msgs})
}

// All 返回最近消息的全量视图（上限 500 条）。
func (h *AdminMessagesHandler) All(c *gin.Context) {
	msgs, err := h.msgSvc.All()
	if err != nil {
		log.Error("Admin messages all: query failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "Erreur serveur (messages all)"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "messages": msgs})
}
