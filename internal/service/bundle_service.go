// Package service 包含了应用的业务逻辑层。
package service

import (
	"archive/zip"
	"fmt"
	"io"
	"os"

	"parentfacile-go/internal/model"
	"parentfacile-go/internal/repository"
	"parentfacile-go/internal/storage"
	"parentfacile-go/pkg/log"
)

// BundleName 是归档下载时使用的附件文件名。
const BundleName = "parentfacile-documents.zip"

// BundleService 接口定义了全量文档归档的生成操作。
// Collect 在写响应头之前完成（空目录可以干净地返回 404）；
// WriteArchive 直接向响应流写 zip，开始后出错只能中断连接。
type BundleService interface {
	Collect() ([]model.Document, error)
	WriteArchive(w io.Writer, docs []model.Document) error
}

// bundleService 是 BundleService 接口的实现。
type bundleService struct {
	docRepo repository.DocumentRepository
	store   *storage.FileStore
}

// NewBundleService 创建一个新的 BundleService 实例。
func NewBundleService(docRepo repository.DocumentRepository, store *storage.FileStore) BundleService {
	return &bundleService{docRepo: docRepo, store: store}
}

// Collect 返回全部文档（按 sort_order, label），表为空时返回 ErrNoDocuments。
func (s *bundleService) Collect() ([]model.Document, error) {
	docs, err := s.docRepo.FindAllOrdered()
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	return docs, nil
}

// WriteArchive 将各文档的文件流式写入 zip 归档。
// 条目名为零填充的序号 + 清洗后的标签；磁盘上缺失的文件静默跳过，
// 不作为部分失败上报。
func (s *bundleService) WriteArchive(w io.Writer, docs []model.Document) error {
	zw := zip.NewWriter(w)

	for i := range docs {
		doc := &docs[i]
		fileName := storage.SafeBaseName(doc.FileName)
		if fileName == "" {
			continue
		}
		if _, err := s.store.Stat(fileName); err != nil {
			if os.IsNotExist(err) {
				log.Infof("归档跳过缺失文件: %s (doc id=%d)", fileName, doc.ID)
				continue
			}
			return err
		}

		entryName := fmt.Sprintf("%02d - %s.pdf", doc.SortOrder, storage.CleanForHeader(doc.Label))
		if err := s.appendEntry(zw, entryName, fileName); err != nil {
			return err
		}
	}

	return zw.Close()
}

// appendEntry 将单个文件拷贝进归档（逐文件打开/关闭，避免句柄堆积）。
func (s *bundleService) appendEntry(zw *zip.Writer, entryName, fileName string) error {
	f, err := s.store.Open(fileName)
	if err != nil {
		return err
	}
	defer f.Close()

	ew, err := zw.Create(entryName)
	if err != nil {
		return err
	}
	_, err = io.Copy(ew, f)
	return err
}
