// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"parentfacile-go/internal/model"
)

// ListParams 是文档列表查询的过滤/排序/分页参数。
// 参数合法性在 handler 层通过绑定校验保证，仓库层只做白名单兜底。
type ListParams struct {
	Tag   string
	Query string
	Sort  string // label | order | created | tag
	Dir   string // asc | desc
	Page  int
	Limit int
}

// DocumentRepository 接口定义了文档元数据的持久化操作。
type DocumentRepository interface {
	List(params ListParams) ([]model.Document, int64, error)
	FindByID(id uint) (*model.Document, error)
	FindAllOrdered() ([]model.Document, error)
	FindAllGrouped() ([]model.Document, error)
	Create(doc *model.Document) error
	UpdateFields(id uint, fields map[string]interface{}) error
	Delete(id uint) error
}

// documentRepository 是 DocumentRepository 接口的 GORM 实现。
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository 创建一个新的 DocumentRepository 实例。
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// tagPrecedence 是 tag 排序时的固定类目优先级：
// 按孕期阶段的时间顺序排列，未知类目排最后。
const tagPrecedence = "CASE tag WHEN 'Grossesse' THEN 0 WHEN 'Naissance' THEN 1 WHEN '1–3 ans' THEN 2 ELSE 99 END"

// buildOrderClause 根据排序键与方向构造 ORDER BY 子句。
// tag 排序走固定类目优先级，其余排序键以 label 作为稳定的次级键。
func buildOrderClause(sort, dir string) string {
	column := map[string]string{
		"label":   "label",
		"order":   "sort_order",
		"created": "created_at",
		"tag":     "tag",
	}[sort]
	if column == "" {
		column = "tag"
	}
	direction := "ASC"
	if strings.EqualFold(dir, "desc") {
		direction = "DESC"
	}
	if column == "tag" {
		return tagPrecedence + ", sort_order, label"
	}
	return fmt.Sprintf("%s %s, label ASC", column, direction)
}

// List 按过滤/排序/分页参数查询文档，返回当前页数据与过滤后的总数。
func (r *documentRepository) List(params ListParams) ([]model.Document, int64, error) {
	db := r.db.Model(&model.Document{})

	if params.Tag != "" {
		db = db.Where("tag = ?", params.Tag)
	}
	if params.Query != "" {
		like := "%" + params.Query + "%"
		db = db.Where("(label LIKE ? OR doc_key LIKE ?)", like, like)
	}

	// 首先计算过滤后的总记录数
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = 50
	}
	offset := (page - 1) * limit

	var docs []model.Document
	err := db.Order(buildOrderClause(params.Sort, params.Dir)).
		Offset(offset).Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// FindByID 根据主键查找一个文档。
func (r *documentRepository) FindByID(id uint) (*model.Document, error) {
	var doc model.Document
	err := r.db.First(&doc, id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindAllOrdered 按 sort_order, label 返回全部文档，供打包归档使用。
func (r *documentRepository) FindAllOrdered() ([]model.Document, error) {
	var docs []model.Document
	err := r.db.Order("sort_order, label").Find(&docs).Error
	return docs, err
}

// FindAllGrouped 按 tag, sort_order, label 返回全部文档，供后台列表使用。
func (r *documentRepository) FindAllGrouped() ([]model.Document, error) {
	var docs []model.Document
	err := r.db.Order("tag, sort_order, label").Find(&docs).Error
	return docs, err
}

// Create 在数据库中插入一条新的文档记录。
func (r *documentRepository) Create(doc *model.Document) error {
	return r.db.Create(doc).Error
}

// UpdateFields 对指定文档做部分更新：只更新传入的列。
// 文件替换时，文件相关列与元数据列在同一条 UPDATE 中一并落库。
func (r *documentRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&model.Document{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除一条文档记录。
func (r *documentRepository) Delete(id uint) error {
	return r.db.Delete(&model.Document{}, id).Error
}
