// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// AdminUser 定义了 admin_users 表的 ORM 模型。
// 系统只预期存在一行：启动时由种子逻辑按需创建。
type AdminUser struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"type:varchar(190);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (AdminUser) TableName() string {
	return "admin_users"
}
