// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// Document 定义了 documents 表的 ORM 模型。
// 一条记录描述一个可下载的 PDF 及其展示元数据。
// FileName 按约定指向 File Store 中的文件，不做外键强制：
// 文件可能被独立删除，读取路径需要自行容错。
type Document struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	DocKey    string    `gorm:"column:doc_key;type:varchar(191);uniqueIndex;not null" json:"doc_key"`
	Label     string    `gorm:"type:varchar(255);not null" json:"label"`
	Tag       string    `gorm:"type:varchar(50);not null" json:"tag"`
	SortOrder int       `gorm:"column:sort_order;not null;default:999" json:"order"`
	FileName  string    `gorm:"column:file_name;type:varchar(255);not null" json:"file_name"`
	FileSize  int64     `gorm:"column:file_size;default:0" json:"file_size"`
	MimeType  string    `gorm:"column:mime_type;type:varchar(100);default:'application/pdf'" json:"mime_type"`
	PublicURL string    `gorm:"column:public_url;type:varchar(600);not null" json:"public_url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Document) TableName() string {
	return "documents"
}
