// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"parentfacile-go/internal/repository"
	"parentfacile-go/internal/service"
	"parentfacile-go/pkg/log"
)

// DocsHandler 负责处理公开文档目录的 API 请求（列表/预览/下载/打包）。
type DocsHandler struct {
	catalogSvc  service.CatalogService
	deliverySvc service.DeliveryService
	bundleSvc   service.BundleService
}

// NewDocsHandler 创建一个新的 DocsHandler 实例。
func NewDocsHandler(catalogSvc service.CatalogService, deliverySvc service.DeliveryService, bundleSvc service.BundleService) *DocsHandler {
	return &DocsHandler{
		catalogSvc:  catalogSvc,
		deliverySvc: deliverySvc,
		bundleSvc:   bundleSvc,
	}
}

// ListDocsQuery 定义了文档列表 API 的查询参数及其边界。
type ListDocsQuery struct {
	Page  int    `form:"page,default=1" binding:"omitempty,min=1,max=10000"`
	Limit int    `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
	Tag   string `form:"tag" binding:"omitempty,max=50"`
	Q     string `form:"q" binding:"omitempty,max=200"`
	Sort  string `form:"sort,default=tag" binding:"omitempty,oneof=label order created tag"`
	Dir   string `form:"dir,default=asc" binding:"omitempty,oneof=asc desc"`
}

// List 处理文档列表请求：过滤/排序/分页在查询执行前全部校验。
func (h *DocsHandler) List(c *gin.Context) {
	var q ListDocsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "errors": err.Error()})
		return
	}

	docs, total, err := h.catalogSvc.List(repository.ListParams{
		Tag:   q.Tag,
		Query: q.Q,
		Sort:  q.Sort,
		Dir:   q.Dir,
		Page:  q.Page,
		Limit: q.Limit,
	})
	if err != nil {
		log.Error("List documents: query failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"total":     total,
		"page":      q.Page,
		"limit":     q.Limit,
		"documents": docs,
	})
}

// Preview 以 inline disposition 流式返回 PDF。
func (h *DocsHandler) Preview(c *gin.Context) {
	h.deliver(c, "inline")
}

// Download 以 attachment disposition 流式返回 PDF。
func (h *DocsHandler) Download(c *gin.Context) {
	h.deliver(c, "attachment")
}

// deliver 是预览与下载的公共路径，二者只差 disposition 类型。
func (h *DocsHandler) deliver(c *gin.Context, disposition string) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "ID invalide"})
		return
	}

	fd, err := h.deliverySvc.Resolve(uint(id))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDocumentNotFound), errors.Is(err, service.ErrFileMissing):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
		default:
			log.Error("Deliver: resolve failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Erreur serveur"})
		}
		return
	}

	f, err := os.Open(fd.Path)
	if err != nil {
		// stat 和 open 之间文件可能刚被删除（与删除操作竞争时的瞬时 404）
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": service.ErrFileMissing.Error()})
		return
	}
	defer f.Close()

	c.Header("Content-Type", fd.MimeType)
	c.Header("Content-Length", strconv.FormatInt(fd.Size, 10))
	c.Header("Content-Disposition", disposition+"; "+fd.Disposition)
	c.Header("Cache-Control", "public, max-age=3600, must-revalidate")
	c.Header("Last-Modified", fd.ModTime.UTC().Format(http.TimeFormat))
	c.Status(http.StatusOK)

	// 流式拷贝。头已发出，中途出错只能中断连接并记日志，不做重试。
	if _, err := io.Copy(c.Writer, f); err != nil {
		log.Warnf("Deliver: stream aborted, path=%s, err=%v", fd.Path, err)
		c.Abort()
	}
}

// Zip 生成包含全部可用 PDF 的归档并流式返回。
func (h *DocsHandler) Zip(c *gin.Context) {
	// 空目录要在写响应头之前发现，才能返回干净的 404
	docs, err := h.bundleSvc.Collect()
	if err != nil {
		if errors.Is(err, service.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
			return
		}
		log.Error("Zip: collect failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Erreur serveur"})
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="`+service.BundleName+`"`)
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)

	if err := h.bundleSvc.WriteArchive(c.Writer, docs); err != nil {
		// 头已发出，无法转换为干净的错误响应：记日志并中断
		log.Error("Zip: archive stream aborted", err)
		c.Abort()
	}
}
