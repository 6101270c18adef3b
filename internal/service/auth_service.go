// Package service 包含了应用的业务逻辑层。
package service

import (
	"errors"

	"gorm.io/gorm"
	"parentfacile-go/internal/model"
	"parentfacile-go/internal/repository"
	"parentfacile-go/pkg/hash"
	"parentfacile-go/pkg/log"
	"parentfacile-go/pkg/token"
)

// AuthService 接口定义了管理员认证相关的业务操作。
// 状态机只有 Anonymous -> Authenticated -> Anonymous，没有刷新流程；
// 登出后 bearer token 在自然过期前仍然有效（无服务端吊销名单）。
type AuthService interface {
	Login(email, password string) (tokenString string, admin *model.AdminUser, err error)
	EnsureSeedAdmin(seedEmail, seedPassword string) error
}

// authService 是 AuthService 接口的实现。
type authService struct {
	adminRepo  repository.AdminUserRepository
	jwtManager *token.JWTManager
}

// NewAuthService 创建一个新的 AuthService 实例。
func NewAuthService(adminRepo repository.AdminUserRepository, jwtManager *token.JWTManager) AuthService {
	return &authService{
		adminRepo:  adminRepo,
		jwtManager: jwtManager,
	}
}

// Login 处理管理员登录。
// 邮箱未命中与密码不匹配返回同一个错误，响应体不暴露具体原因。
func (s *authService) Login(email, password string) (string, *model.AdminUser, error) {
	// 1. 按邮箱查找唯一的管理员账号
	admin, err := s.adminRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	// 2. 恒定时间的 bcrypt 校验
	if !hash.CheckPasswordHash(password, admin.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	// 3. 签发带 admin 角色标记的凭证
	tokenString, err := s.jwtManager.GenerateToken(admin.ID, admin.Email)
	if err != nil {
		return "", nil, err
	}

	return tokenString, admin, nil
}

// EnsureSeedAdmin 在启动时按需创建唯一的管理员账号（幂等）。
// 种子配置缺失时跳过；邮箱已存在时为空操作，不报错。
func (s *authService) EnsureSeedAdmin(seedEmail, seedPassword string) error {
	if seedEmail == "" || seedPassword == "" {
		log.Warnf("种子管理员邮箱/密码未配置，跳过初始化")
		return nil
	}

	_, err := s.adminRepo.FindByEmail(seedEmail)
	if err == nil {
		log.Infof("种子管理员已存在: %s", seedEmail)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := hash.HashPassword(seedPassword)
	if err != nil {
		return err
	}
	if err := s.adminRepo.Create(&model.AdminUser{Email: seedEmail, PasswordHash: hashed}); err != nil {
		return err
	}
	log.Infof("种子管理员已创建: %s", seedEmail)
	return nil
}
