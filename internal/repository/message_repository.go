// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"gorm.io/gorm"
	"parentfacile-go/internal/model"
)

// MessageRepository 接口定义了联系消息的持久化操作。
// 消息只追加、按时间倒序读取，没有删除入口。
type MessageRepository interface {
	Create(msg *model.Message) error
	FindRecent(limit int) ([]model.Message, error)
}

// messageRepository 是 MessageRepository 接口的 GORM 实现。
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建一个新的 MessageRepository 实例。
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create 插入一条联系消息。
func (r *messageRepository) Create(msg *model.Message) error {
	return r.db.Create(msg).Error
}

// FindRecent 返回最近的 limit 条消息，按创建时间倒序。
func (r *messageRepository) FindRecent(limit int) ([]model.Message, error) {
	var msgs []model.Message
	err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&msgs).Error
	return msgs, err
}
