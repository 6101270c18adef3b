// Package service 包含了应用的业务逻辑层。
package service

import (
	"parentfacile-go/internal/model"
	"parentfacile-go/internal/repository"
)

// allMessagesCap 是 /all 列表的硬上限，防止一次性拉爆内存。
const allMessagesCap = 500

// MessageService 接口定义了联系消息的业务操作。
// 消息追加写入后只读；邮件投递不在本服务范围内（email_sent 保持 0）。
type MessageService interface {
	Submit(email, subject, body string) (*model.Message, error)
	Recent(limit int) ([]model.Message, error)
	All() ([]model.Message, error)
}

// messageService 是 MessageService 接口的实现。
type messageService struct {
	msgRepo repository.MessageRepository
}

// NewMessageService 创建一个新的 MessageService 实例。
func NewMessageService(msgRepo repository.MessageRepository) MessageService {
	return &messageService{msgRepo: msgRepo}
}

// Submit 追加一条联系消息。
func (s *messageService) Submit(email, subject, body string) (*model.Message, error) {
	msg := &model.Message{
		Email:   email,
		Subject: subject,
		Message: body,
	}
	if err := s.msgRepo.Create(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Recent 返回最近的消息，limit 被钳制在 1..100，默认 3。
func (s *messageService) Recent(limit int) ([]model.Message, error) {
	if limit < 1 {
		limit = 3
	}
	if limit > 100 {
		limit = 100
	}
	return s.msgRepo.FindRecent(limit)
}

// All 返回最近的消息全量视图，上限 500 条。
func (s *messageService) All() ([]model.Message, error) {
	return s.msgRepo.FindRecent(allMessagesCap)
}
