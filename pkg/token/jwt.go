// Package token 提供了用于生成和验证 JSON Web Tokens (JWT) 的功能。
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin 是管理员凭证必须携带的角色标记。
const RoleAdmin = "admin"

// ErrNotAdmin 表示 token 本身有效，但角色声明不是管理员。
var ErrNotAdmin = errors.New("token role is not admin")

// JWTManager 负责管理管理员凭证的生成和验证。
type JWTManager struct {
	secretKey []byte        // secretKey 用于签名和验证 token 的密钥
	tokenDur  time.Duration // tokenDur 定义了管理员凭证的有效期
}

// AdminClaims 定义了管理员凭证中携带的数据。
// 它嵌入了 jwt.RegisteredClaims 以包含标准的 JWT 声明（如过期时间）。
type AdminClaims struct {
	AdminID uint   `json:"adminId"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTManager 创建一个新的 JWTManager 实例。
// secret: 用于签名的密钥字符串。
// expireDays: 凭证的过期时间（天）。
func NewJWTManager(secret string, expireDays int) *JWTManager {
	if expireDays <= 0 {
		expireDays = 7
	}
	return &JWTManager{
		secretKey: []byte(secret),
		tokenDur:  time.Duration(expireDays) * 24 * time.Hour,
	}
}

// GenerateToken 为给定的管理员签发一个新的凭证。
func (m *JWTManager) GenerateToken(adminID uint, email string) (string, error) {
	// 创建 claims，包含自定义数据和标准过期时间
	claims := AdminClaims{
		AdminID: adminID,
		Email:   email,
		Role:    RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenDur)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	// 使用 HS256 签名方法创建新的 token 对象
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	// 使用密钥签名 token 并返回字符串形式
	return token.SignedString(m.secretKey)
}

// VerifyToken 验证给定的 token 字符串。
// 除签名与过期时间外，还会校验角色声明必须为 admin：
// 签名有效但角色不符的 token 同样会被拒绝。
func (m *JWTManager) VerifyToken(tokenString string) (*AdminClaims, error) {
	// 解析 token 字符串
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 检查签名方法是否为 HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		// 返回密钥用于验证
		return m.secretKey, nil
	})

	if err != nil {
		return nil, err
	}

	// 从解析后的 token 中提取 claims
	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Role != RoleAdmin {
		return nil, ErrNotAdmin
	}
	return claims, nil
}

// TokenDuration 返回凭证有效期，Cookie 的 Max-Age 与其保持一致。
func (m *JWTManager) TokenDuration() time.Duration {
	return m.tokenDur
}
