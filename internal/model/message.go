// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// Message 定义了 messages 表的 ORM 模型。
// 联系表单提交的消息，追加写入，除发送标记外不会被更新，也没有删除入口。
type Message struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string     `gorm:"type:varchar(190);not null" json:"email"`
	Subject   string     `gorm:"type:varchar(190);not null" json:"subject"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	EmailSent bool       `gorm:"column:email_sent;not null;default:false" json:"email_sent"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	SentAt    *time.Time `gorm:"column:sent_at;default:null" json:"sent_at"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Message) TableName() string {
	return "messages"
}
