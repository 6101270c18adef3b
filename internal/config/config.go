// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Admin     AdminConfig     `mapstructure:"admin"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Upload    UploadConfig    `mapstructure:"upload"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
// DSN 中应带上 timeout/readTimeout/writeTimeout 参数（默认 12s），
// 避免数据库不可达时请求无限挂起。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。限流计数器存放于此。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig 存储管理员凭证签发相关的配置。
type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	ExpireDays int    `mapstructure:"expire_days"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// StorageConfig 存储 PDF 文件仓库（File Store）的配置。
type StorageConfig struct {
	PDFDir string `mapstructure:"pdf_dir"`
}

// AdminConfig 存储唯一管理员账号以及凭证投递方式的配置。
type AdminConfig struct {
	SeedEmail    string `mapstructure:"seed_email"`
	SeedPassword string `mapstructure:"seed_password"`
	// TokenStrategy 取值 cookie | bearer | both，启动时解析为枚举。
	TokenStrategy string `mapstructure:"token_strategy"`
	CookieName    string `mapstructure:"cookie_name"`
	CookieSecure  bool   `mapstructure:"cookie_secure"`
	CookieDomain  string `mapstructure:"cookie_domain"`
}

// CORSConfig 存储跨域白名单配置。
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig 存储各限流窗口的配置（次数/每分钟）。
type RateLimitConfig struct {
	GlobalPerMinute int `mapstructure:"global_per_minute"`
	AuthPerMinute   int `mapstructure:"auth_per_minute"`
	ZipPerMinute    int `mapstructure:"zip_per_minute"`
}

// UploadConfig 存储文档上传的约束配置。
type UploadConfig struct {
	MaxSizeMB int64 `mapstructure:"max_size_mb"`
}

// TokenStrategy 表示管理员凭证的投递/读取方式。
// 在启动时从配置解析一次，请求路径上只做枚举比较。
type TokenStrategy int

const (
	// StrategyBoth 同时启用 Cookie 与 Bearer，读取时 Cookie 优先。
	StrategyBoth TokenStrategy = iota
	// StrategyCookieOnly 仅通过 HttpOnly Cookie 投递与读取。
	StrategyCookieOnly
	// StrategyBearerOnly 仅通过响应体返回 token，请求时走 Authorization 头。
	StrategyBearerOnly
)

// ParseTokenStrategy 将配置字符串解析为 TokenStrategy 枚举。
// 未识别的取值回退为 both，与原部署行为保持一致。
func ParseTokenStrategy(s string) TokenStrategy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cookie":
		return StrategyCookieOnly
	case "bearer":
		return StrategyBearerOnly
	default:
		return StrategyBoth
	}
}

// UseCookie 返回该策略是否启用 Cookie 投递。
func (t TokenStrategy) UseCookie() bool {
	return t == StrategyCookieOnly || t == StrategyBoth
}

// UseBearer 返回该策略是否启用 Bearer 头读取。
func (t TokenStrategy) UseBearer() bool {
	return t == StrategyBearerOnly || t == StrategyBoth
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}
}
