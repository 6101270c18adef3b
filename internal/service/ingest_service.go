// Package service 包含了应用的业务逻辑层。
package service

import (
	"errors"
	"mime/multipart"

	"gorm.io/gorm"
	"parentfacile-go/internal/model"
	"parentfacile-go/internal/repository"
	"parentfacile-go/internal/storage"
	"parentfacile-go/pkg/log"
)

// CreateDocumentInput 是创建文档的元数据字段（均为必填，handler 层已校验）。
type CreateDocumentInput struct {
	Label     string
	Tag       string
	DocKey    string
	SortOrder int
}

// UpdateDocumentInput 是部分更新的元数据字段：nil 表示该字段不修改。
type UpdateDocumentInput struct {
	Label     *string
	Tag       *string
	DocKey    *string
	SortOrder *int
}

// IngestService 接口定义了文档的写入操作（创建/更新/删除）。
// 所有操作都由管理员认证中间件把守，没有匿名路径。
type IngestService interface {
	Create(input CreateDocumentInput, file *multipart.FileHeader) (*model.Document, error)
	Update(id uint, input UpdateDocumentInput, file *multipart.FileHeader) error
	Delete(id uint) error
}

// ingestService 是 IngestService 接口的实现。
type ingestService struct {
	docRepo repository.DocumentRepository
	store   *storage.FileStore
}

// NewIngestService 创建一个新的 IngestService 实例。
func NewIngestService(docRepo repository.DocumentRepository, store *storage.FileStore) IngestService {
	return &ingestService{docRepo: docRepo, store: store}
}

// saveUpload 将上传文件写入 File Store，返回存储名与实际写入字节数。
func (s *ingestService) saveUpload(file *multipart.FileHeader) (string, int64, error) {
	src, err := file.Open()
	if err != nil {
		return "", 0, err
	}
	defer src.Close()

	storedName := storage.StoredName(file.Filename)
	written, err := s.store.Save(src, storedName)
	if err != nil {
		// 写入中途失败可能留下半个文件，尽力清理
		s.store.RemoveBestEffort(storedName)
		return "", 0, err
	}
	return storedName, written, nil
}

// Create 持久化上传文件并插入文档记录。
// 插入失败（含 doc_key 冲突）时删除刚写入的文件，避免孤儿。
func (s *ingestService) Create(input CreateDocumentInput, file *multipart.FileHeader) (*model.Document, error) {
	storedName, written, err := s.saveUpload(file)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		DocKey:    input.DocKey,
		Label:     input.Label,
		Tag:       input.Tag,
		SortOrder: input.SortOrder,
		FileName:  storedName,
		FileSize:  written,
		MimeType:  "application/pdf",
		PublicURL: "/pdfs/" + storedName,
	}

	if err := s.docRepo.Create(doc); err != nil {
		s.store.RemoveBestEffort(storedName)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDocKeyExists
		}
		return nil, err
	}

	return doc, nil
}

// Update 对文档做部分更新：只落库传入的字段。
// 如带新文件，旧文件尽力删除（失败只记日志），文件相关列与元数据
// 在同一条 UPDATE 中替换。没有任何字段时为空操作。
func (s *ingestService) Update(id uint, input UpdateDocumentInput, file *multipart.FileHeader) error {
	doc, err := s.docRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}

	fields := map[string]interface{}{}
	if input.Label != nil {
		fields["label"] = *input.Label
	}
	if input.Tag != nil {
		fields["tag"] = *input.Tag
	}
	if input.DocKey != nil {
		fields["doc_key"] = *input.DocKey
	}
	if input.SortOrder != nil {
		fields["sort_order"] = *input.SortOrder
	}

	if file != nil {
		storedName, written, err := s.saveUpload(file)
		if err != nil {
			return err
		}
		if doc.FileName != "" {
			s.store.RemoveBestEffort(doc.FileName)
		}
		fields["file_name"] = storedName
		fields["file_size"] = written
		fields["mime_type"] = "application/pdf"
		fields["public_url"] = "/pdfs/" + storedName
	}

	if len(fields) == 0 {
		log.Infof("文档 %d 更新请求无任何字段，忽略", id)
		return nil
	}

	if err := s.docRepo.UpdateFields(id, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDocKeyExists
		}
		return err
	}
	return nil
}

// Delete 删除文档记录，然后尽力删除其背后的文件。
// 行删除是权威动作：文件删除失败不会回滚记录。
func (s *ingestService) Delete(id uint) error {
	doc, err := s.docRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}

	if err := s.docRepo.Delete(id); err != nil {
		return err
	}

	if doc.FileName != "" {
		s.store.RemoveBestEffort(doc.FileName)
	}
	return nil
}
