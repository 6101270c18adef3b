package database

import (
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"parentfacile-go/pkg/log"
)

// OpenMySQL 建立 MySQL 连接并配置连接池，返回显式的 *gorm.DB 句柄。
// 句柄由调用方注入到各 repository，生命周期随进程：启动时打开，
// 停机时通过 CloseDB 关闭（不再使用包级单例）。
//
// TranslateError 开启后，唯一键冲突会被翻译为 gorm.ErrDuplicatedKey，
// 供 doc_key 重复的显式映射使用。
func OpenMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)           // 设置空闲连接池中连接的最大数量
	sqlDB.SetMaxOpenConns(100)          // 设置打开数据库连接的最大数量
	sqlDB.SetConnMaxLifetime(time.Hour) // 设置了连接可复用的最大时间

	log.Info("MySQL database connected successfully")
	return db, nil
}

// CloseDB 关闭底层 sql.DB 连接池。停机路径调用。
func CloseDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error("failed to get sql.DB for close", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("failed to close database", err)
	}
}
