// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"parentfacile-go/internal/config"
	"parentfacile-go/internal/handler"
	"parentfacile-go/internal/middleware"
	"parentfacile-go/internal/model"
	"parentfacile-go/internal/repository"
	"parentfacile-go/internal/service"
	"parentfacile-go/internal/storage"
	"parentfacile-go/pkg/database"
	"parentfacile-go/pkg/log"
	"parentfacile-go/pkg/token"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis 与文件仓库（显式句柄，随进程生命周期管理）
	db, err := database.OpenMySQL(cfg.Database.MySQL.DSN)
	if err != nil {
		log.Fatal("failed to connect database", err)
	}
	defer database.CloseDB(db)

	rdb, err := database.OpenRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	if err != nil {
		log.Fatal("failed to connect to redis", err)
	}
	defer func() { _ = rdb.Close() }()

	store, err := storage.NewFileStore(cfg.Storage.PDFDir)
	if err != nil {
		log.Fatal("failed to init file store", err)
	}

	// 4. 建表（等价于原部署的 CREATE TABLE IF NOT EXISTS）
	if err := db.AutoMigrate(&model.Document{}, &model.AdminUser{}, &model.Message{}); err != nil {
		log.Fatal("failed to migrate schema", err)
	}

	// 5. 初始化 Repository
	docRepo := repository.NewDocumentRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)
	msgRepo := repository.NewMessageRepository(db)

	// 6. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpireDays)
	catalogService := service.NewCatalogService(docRepo)
	deliveryService := service.NewDeliveryService(docRepo, store)
	bundleService := service.NewBundleService(docRepo, store)
	authService := service.NewAuthService(adminRepo, jwtManager)
	ingestService := service.NewIngestService(docRepo, store)
	messageService := service.NewMessageService(msgRepo)

	// 7. 种子管理员（幂等：已存在则跳过）
	if err := authService.EnsureSeedAdmin(cfg.Admin.SeedEmail, cfg.Admin.SeedPassword); err != nil {
		log.Fatal("failed to seed admin account", err)
	}

	// 8. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	// 自定义日志中间件 + Recovery（Recovery 即最外层的 500 兜底边界）
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// CORS 白名单，支持携带凭证；未配置白名单时放行所有来源
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		corsCfg.AllowOriginFunc = func(origin string) bool { return true }
	}
	r.Use(cors.New(corsCfg))

	// 公开的 PDF 静态目录
	r.Static("/pdfs", store.Dir())

	// 9. 初始化 Handler 并注册路由
	authHandler := handler.NewAdminAuthHandler(authService, jwtManager, cfg.Admin)
	adminAuth := middleware.AdminAuth(jwtManager, authHandler.Strategy(), authHandler.CookieName())

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		dbOK := err == nil && sqlDB.Ping() == nil
		c.JSON(http.StatusOK, gin.H{"ok": true, "db": dbOK, "env": cfg.Server.Mode})
	})

	api := r.Group("/api")
	api.Use(middleware.RateLimit(rdb, "global", cfg.RateLimit.GlobalPerMinute, time.Minute))
	{
		docsHandler := handler.NewDocsHandler(catalogService, deliveryService, bundleService)
		docs := api.Group("/docs")
		{
			docs.GET("", docsHandler.List)
			// 归档接口读全部文件，代价高，叠加独立的小窗口限流
			docs.GET("/zip", middleware.RateLimit(rdb, "zip", cfg.RateLimit.ZipPerMinute, time.Minute), docsHandler.Zip)
			docs.GET("/:id/preview", docsHandler.Preview)
			docs.GET("/:id/download", docsHandler.Download)
		}

		api.POST("/contact", handler.NewContactHandler(messageService).Submit)

		// 认证路由组：登录类接口带独立限流，抵御撞库
		auth := api.Group("/admin/auth")
		auth.Use(middleware.RateLimit(rdb, "auth", cfg.RateLimit.AuthPerMinute, time.Minute))
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", adminAuth, authHandler.Me)
		}

		// 后台文档管理路由组，全部需要管理员凭证
		adminDocsHandler := handler.NewAdminDocsHandler(catalogService, ingestService, cfg.Upload.MaxSizeMB)
		adminDocs := api.Group("/admin/docs")
		adminDocs.Use(adminAuth)
		{
			adminDocs.GET("", adminDocsHandler.List)
			adminDocs.POST("", adminDocsHandler.Create)
			adminDocs.PUT("/:id", adminDocsHandler.Update)
			adminDocs.DELETE("/:id", adminDocsHandler.Delete)
		}

		// 后台消息收件箱路由组
		msgHandler := handler.NewAdminMessagesHandler(messageService)
		adminMsgs := api.Group("/admin/messages")
		adminMsgs.Use(adminAuth)
		{
			adminMsgs.GET("", msgHandler.Recent)
			adminMsgs.GET("/all", msgHandler.All)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "Not found"})
	})

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
