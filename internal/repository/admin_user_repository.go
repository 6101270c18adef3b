// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"gorm.io/gorm"
	"parentfacile-go/internal/model"
)

// AdminUserRepository 接口定义了管理员账号的持久化操作。
type AdminUserRepository interface {
	FindByEmail(email string) (*model.AdminUser, error)
	Create(admin *model.AdminUser) error
}

// adminUserRepository 是 AdminUserRepository 接口的 GORM 实现。
type adminUserRepository struct {
	db *gorm.DB
}

// NewAdminUserRepository 创建一个新的 AdminUserRepository 实例。
func NewAdminUserRepository(db *gorm.DB) AdminUserRepository {
	return &adminUserRepository{db: db}
}

// FindByEmail 根据邮箱查找管理员账号（邮箱不区分大小写）。
func (r *adminUserRepository) FindByEmail(email string) (*model.AdminUser, error) {
	var admin model.AdminUser
	err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Create 在数据库中创建一个管理员账号。
func (r *adminUserRepository) Create(admin *model.AdminUser) error {
	return r.db.Create(admin).Error
}
