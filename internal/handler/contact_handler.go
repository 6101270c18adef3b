// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"parentfacile-go/internal/service"
	"parentfacile-go/pkg/log"
)

// ContactHandler 负责处理联系表单的提交。
type ContactHandler struct {
	msgSvc service.MessageService
}

// NewContactHandler 创建一个新的 ContactHandler 实例。
func NewContactHandler(msgSvc service.MessageService) *ContactHandler {
	return &ContactHandler{msgSvc: msgSvc}
}

// ContactRequest 定义了联系表单的请求体结构。
// HP 是蜜罐字段：正常用户不会填写，机器人填了就拒绝。
type ContactRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,min=2,max=190"`
	Message string `json:"message" binding:"required,min=10,max=5000"`
	HP      string `json:"hp"`
}

// Submit 校验并持久化一条联系消息。
func (h *ContactHandler) Submit(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "errors": err.Error()})
		return
	}
	if req.HP != "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "Requête rejetée"})
		return
	}

	msg, err := h.msgSvc.Submit(req.Email, req.Subject, req.Message)
	if err != nil {
		log.Error("Contact: insert failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "Erreur serveur (DB)"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "id": msg.ID})
}
