// Package service 包含了应用的业务逻辑层。
package service

import (
	"errors"
	"os"
	"time"

	"gorm.io/gorm"
	"parentfacile-go/internal/repository"
	"parentfacile-go/internal/storage"
)

// FileDelivery 封装了流式返回单个文档所需的全部信息。
// Size 与 ModTime 来自实时 stat，而非表中记录的 file_size。
type FileDelivery struct {
	Path        string    // File Store 中的绝对路径
	DisplayName string    // 清洗后的展示名（含 .pdf 后缀）
	Disposition string    // Content-Disposition 的 filename 部分（RFC 5987）
	MimeType    string
	Size        int64
	ModTime     time.Time
}

// DeliveryService 接口定义了单文档投递的解析操作。
// preview 与 download 共用同一次解析，区别只在 disposition 类型。
type DeliveryService interface {
	Resolve(id uint) (*FileDelivery, error)
}

// deliveryService 是 DeliveryService 接口的实现。
type deliveryService struct {
	docRepo repository.DocumentRepository
	store   *storage.FileStore
}

// NewDeliveryService 创建一个新的 DeliveryService 实例。
func NewDeliveryService(docRepo repository.DocumentRepository, store *storage.FileStore) DeliveryService {
	return &deliveryService{docRepo: docRepo, store: store}
}

// Resolve 根据文档 id 解析出可流式返回的文件信息。
// 记录不存在返回 ErrDocumentNotFound；记录存在但文件缺失返回 ErrFileMissing
// （两者对外都是 404，内部文案可区分，便于运维定位）。
func (s *deliveryService) Resolve(id uint) (*FileDelivery, error) {
	doc, err := s.docRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	fileName := storage.SafeBaseName(doc.FileName)
	if fileName == "" {
		return nil, ErrFileMissing
	}

	stat, err := s.store.Stat(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileMissing
		}
		return nil, err
	}

	mimeType := doc.MimeType
	if mimeType == "" {
		mimeType = "application/pdf"
	}
	displayName := storage.CleanForHeader(doc.Label) + ".pdf"

	return &FileDelivery{
		Path:        s.store.Resolve(fileName),
		DisplayName: displayName,
		Disposition: storage.ContentDispositionFilename(displayName),
		MimeType:    mimeType,
		Size:        stat.Size(),
		ModTime:     stat.ModTime(),
	}, nil
}
