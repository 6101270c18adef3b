// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"parentfacile-go/internal/service"
	"parentfacile-go/pkg/log"
)

// AdminDocsHandler 负责处理后台文档管理的 API 请求（列表/创建/更新/删除）。
// 路由装配时整组挂在管理员认证中间件之后。
type AdminDocsHandler struct {
	catalogSvc     service.CatalogService
	ingestSvc      service.IngestService
	maxUploadBytes int64
}

// NewAdminDocsHandler 创建一个新的 AdminDocsHandler 实例。
func NewAdminDocsHandler(catalogSvc service.CatalogService, ingestSvc service.IngestService, maxUploadMB int64) *AdminDocsHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 20
	}
	return &AdminDocsHandler{
		catalogSvc:     catalogSvc,
		ingestSvc:      ingestSvc,
		maxUploadBytes: maxUploadMB << 20,
	}
}

// List 返回后台视图的全部文档，按 tag、sort_order、label 排序。
func (h *AdminDocsHandler) List(c *gin.Context) {
	docs, err := h.catalogSvc.ListGrouped()
	if err != nil {
		log.Error("Admin list documents: failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "Erreur serveur"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "documents": docs})
}

// validateUpload 校验上传文件的声明 MIME 类型与大小上限。
// 返回非空字符串表示拒绝原因。
func (h *AdminDocsHandler) validateUpload(file *multipart.FileHeader) string {
	if file.Header.Get("Content-Type") != "application/pdf" {
		return "Seuls les PDF sont acceptés"
	}
	if file.Size > h.maxUploadBytes {
		return fmt.Sprintf("Fichier trop volumineux (max %d Mo)", h.maxUploadBytes>>20)
	}
	return ""
}

// Create 处理文档创建（multipart：label、tag、doc_key、sort_order、file）。
// 校验全部通过之后才写入文件与数据库，失败时不留半成品。
func (h *AdminDocsHandler) Create(c *gin.Context) {
	label := c.PostForm("label")
	tag := c.PostForm("tag")
	docKey := c.PostForm("doc_key")
	if label == "" || tag == "" || docKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "label, tag, doc_key requis"})
		return
	}

	sortOrder := 999
	if raw := c.PostForm("sort_order"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "sort_order invalide"})
			return
		}
		sortOrder = parsed
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "PDF manquant"})
		return
	}
	if reason := h.validateUpload(file); reason != "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": reason})
		return
	}

	doc, err := h.ingestSvc.Create(service.CreateDocumentInput{
		Label:     label,
		Tag:       tag,
		DocKey:    docKey,
		SortOrder: sortOrder,
	}, file)
	if err != nil {
		if errors.Is(err, service.ErrDocKeyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": err.Error()})
			return
		}
		log.Error("Create document: failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "Erreur serveur"})
		return
	}

	log.Infof("Document créé: id=%d, doc_key=%s", doc.ID, doc.DocKey)
	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"id":         doc.ID,
		"public_url": doc.PublicURL,
		"file_name":  doc.FileName,
	})
}

// Update 处理文档的部分更新（multipart，所有字段可选，文件可选替换）。
func (h *AdminDocsHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "ID invalide"})
		return
	}

	var input service.UpdateDocumentInput
	if v, ok := c.GetPostForm("label"); ok {
		input.Label = &v
	}
	if v, ok := c.GetPostForm("tag"); ok {
		input.Tag = &v
	}
	if v, ok := c.GetPostForm("doc_key"); ok {
		input.DocKey = &v
	}
	if v, ok := c.GetPostForm("sort_order"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "sort_order invalide"})
			return
		}
		input.SortOrder = &parsed
	}

	// 文件是可选的：缺失不是错误，其余 multipart 错误按无效请求处理
	file, err := c.FormFile("file")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "Fichier invalide"})
			return
		}
		file = nil
	}
	if file != nil {
		if reason := h.validateUpload(file); reason != "" {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": reason})
			return
		}
	}

	if err := h.ingestSvc.Update(uint(id), input, file); err != nil {
		switch {
		case errors.Is(err, service.ErrDocumentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "Introuvable"})
		case errors.Is(err, service.ErrDocKeyExists):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": err.Error()})
		default:
			log.Error("Update document: failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "Erreur serveur"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Document mis à jour"})
}

// Delete 删除文档及其背后的文件（文件删除为尽力而为）。
func (h *AdminDocsHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "ID invalide"})
		return
	}

	if err := h.ingestSvc.Delete(uint(id)); err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "Introuvable"})
			return
		}
		log.Error("Delete document: failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
