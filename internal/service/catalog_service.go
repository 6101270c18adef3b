// Package service 包含了应用的业务逻辑层。
package service

import (
	"net/url"
	"strings"

	"parentfacile-go/internal/model"
	"parentfacile-go/internal/repository"
)

// CatalogService 接口定义了公开文档目录的查询操作（只读）。
type CatalogService interface {
	List(params repository.ListParams) ([]model.Document, int64, error)
	ListGrouped() ([]model.Document, error)
}

// catalogService 是 CatalogService 接口的实现。
type catalogService struct {
	docRepo repository.DocumentRepository
}

// NewCatalogService 创建一个新的 CatalogService 实例。
func NewCatalogService(docRepo repository.DocumentRepository) CatalogService {
	return &catalogService{docRepo: docRepo}
}

// ResolvePublicURL 解析文档的公开访问地址：
// 存储值非空则原样返回，否则由文件名派生 /pdfs/<url 编码文件名>。
func ResolvePublicURL(doc *model.Document) string {
	if u := strings.TrimSpace(doc.PublicURL); u != "" {
		return u
	}
	return "/pdfs/" + url.PathEscape(doc.FileName)
}

// List 按过滤/排序/分页参数查询文档，返回解析好 public_url 的结果。
func (s *catalogService) List(params repository.ListParams) ([]model.Document, int64, error) {
	docs, total, err := s.docRepo.List(params)
	if err != nil {
		return nil, 0, err
	}
	for i := range docs {
		docs[i].PublicURL = ResolvePublicURL(&docs[i])
	}
	return docs, total, nil
}

// ListGrouped 返回全部文档（后台视图），按 tag、sort_order、label 排序。
func (s *catalogService) ListGrouped() ([]model.Document, error) {
	docs, err := s.docRepo.FindAllGrouped()
	if err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i].PublicURL = ResolvePublicURL(&docs[i])
	}
	return docs, nil
}
