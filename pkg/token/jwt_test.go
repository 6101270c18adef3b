package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	m := NewJWTManager("test-secret", 7)

	tokenString, err := m.GenerateToken(42, "admin@parentfacile.fr")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := m.VerifyToken(tokenString)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.AdminID != 42 || claims.Email != "admin@parentfacile.fr" || claims.Role != RoleAdmin {
		t.Errorf("claims 不符: %+v", claims)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > 7*24*time.Hour {
		t.Errorf("过期时间不符: %v", claims.ExpiresAt)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	m := NewJWTManager("secret-a", 7)
	other := NewJWTManager("secret-b", 7)

	tokenString, err := m.GenerateToken(1, "admin@parentfacile.fr")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := other.VerifyToken(tokenString); err == nil {
		t.Error("其他密钥签发的 token 应被拒绝")
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	m := NewJWTManager("test-secret", 7)

	// 手工构造已过期的 token（同密钥同声明结构）
	claims := AdminClaims{
		AdminID: 1,
		Email:   "admin@parentfacile.fr",
		Role:    RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("签发过期 token: %v", err)
	}

	if _, err := m.VerifyToken(expired); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("过期 token 应返回 ErrTokenExpired, got %v", err)
	}
}

func TestVerifyTokenWrongRole(t *testing.T) {
	m := NewJWTManager("test-secret", 7)

	// 签名有效但角色不是 admin：同样拒绝
	claims := AdminClaims{
		AdminID: 1,
		Email:   "user@parentfacile.fr",
		Role:    "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("签发 token: %v", err)
	}

	if _, err := m.VerifyToken(forged); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("非 admin 角色应返回 ErrNotAdmin, got %v", err)
	}
}

func TestVerifyTokenRejectsNoneAlgorithm(t *testing.T) {
	m := NewJWTManager("test-secret", 7)

	claims := AdminClaims{
		AdminID: 1,
		Role:    RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("签发 none token: %v", err)
	}
	if _, err := m.VerifyToken(unsigned); err == nil {
		t.Error("none 算法的 token 应被拒绝")
	}
}

func TestNewJWTManagerDefaultDuration(t *testing.T) {
	m := NewJWTManager("test-secret", 0)
	if m.TokenDuration() != 7*24*time.Hour {
		t.Errorf("默认有效期应为 7 天, got %v", m.TokenDuration())
	}
}
