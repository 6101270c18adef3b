package handler

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"parentfacile-go/internal/config"
	"parentfacile-go/internal/middleware"
	"parentfacile-go/internal/model"
	"parentfacile-go/internal/repository"
	"parentfacile-go/internal/service"
	"parentfacile-go/internal/storage"
	"parentfacile-go/pkg/hash"
	"parentfacile-go/pkg/token"
)

// testApp 集成了完整的路由树与依赖，测试通过真实的 HTTP 往返驱动。
type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	store  *storage.FileStore
	jwt    *token.JWTManager
}

// newTestApp 按与生产装配相同的结构组装一个测试应用（无 Redis 限流）。
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Document{}, &model.AdminUser{}, &model.Message{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}

	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("创建文件仓库失败: %v", err)
	}

	docRepo := repository.NewDocumentRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)
	msgRepo := repository.NewMessageRepository(db)

	jwtManager := token.NewJWTManager("test-secret", 7)
	catalogSvc := service.NewCatalogService(docRepo)
	deliverySvc := service.NewDeliveryService(docRepo, store)
	bundleSvc := service.NewBundleService(docRepo, store)
	authSvc := service.NewAuthService(adminRepo, jwtManager)
	ingestSvc := service.NewIngestService(docRepo, store)
	messageSvc := service.NewMessageService(msgRepo)

	authHandler := NewAdminAuthHandler(authSvc, jwtManager, config.AdminConfig{
		TokenStrategy: "both",
		CookieName:    "admintoken",
	})
	adminAuth := middleware.AdminAuth(jwtManager, authHandler.Strategy(), authHandler.CookieName())

	r := gin.New()
	api := r.Group("/api")
	{
		docsHandler := NewDocsHandler(catalogSvc, deliverySvc, bundleSvc)
		docs := api.Group("/docs")
		{
			docs.GET("", docsHandler.List)
			docs.GET("/zip", docsHandler.Zip)
			docs.GET("/:id/preview", docsHandler.Preview)
			docs.GET("/:id/download", docsHandler.Download)
		}

		api.POST("/contact", NewContactHandler(messageSvc).Submit)

		auth := api.Group("/admin/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", adminAuth, authHandler.Me)
		}

		adminDocsHandler := NewAdminDocsHandler(catalogSvc, ingestSvc, 20)
		adminDocs := api.Group("/admin/docs")
		adminDocs.Use(adminAuth)
		{
			adminDocs.GET("", adminDocsHandler.List)
			adminDocs.POST("", adminDocsHandler.Create)
			adminDocs.PUT("/:id", adminDocsHandler.Update)
			adminDocs.DELETE("/:id", adminDocsHandler.Delete)
		}

		msgHandler := NewAdminMessagesHandler(messageSvc)
		adminMsgs := api.Group("/admin/messages")
		adminMsgs.Use(adminAuth)
		{
			adminMsgs.GET("", msgHandler.Recent)
			adminMsgs.GET("/all", msgHandler.All)
		}
	}

	return &testApp{router: r, db: db, store: store, jwt: jwtManager}
}

// seedAdmin 创建一个管理员账号并返回其 bearer token。
func (a *testApp) seedAdmin(t *testing.T) string {
	t.Helper()
	hashed, err := hash.HashPassword("motdepasse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	admin := model.AdminUser{Email: "admin@parentfacile.fr", PasswordHash: hashed}
	if err := a.db.Create(&admin).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	tokenString, err := a.jwt.GenerateToken(admin.ID, admin.Email)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return tokenString
}

// seedDocument 写入一条文档记录及其仓库文件。
func (a *testApp) seedDocument(t *testing.T, doc model.Document, content string) model.Document {
	t.Helper()
	if content != "" {
		if _, err := a.store.Save(strings.NewReader(content), doc.FileName); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	if err := a.db.Create(&doc).Error; err != nil {
		t.Fatalf("seed document: %v", err)
	}
	return doc
}

// authedRequest 构造一个带管理员 bearer token 的请求。
func authedRequest(method, target, tokenString string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	return req
}

// authedMultipart 构造一个带管理员 bearer token 的 multipart 请求。
func authedMultipart(method, target string, body io.Reader, contentType, tokenString string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	return req
}

// itoa 将数据库 id 转成路径段。
func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// do 执行一次请求并返回 recorder。
func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// multipartBody 构造文档上传的 multipart 请求体。
// fields 为普通字段；fileName 非空时附带一个声明为 application/pdf 的文件段。
func multipartBody(t *testing.T, fields map[string]string, fileName string, fileContent []byte, fileMime string) (io.Reader, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if fileName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
		h.Set("Content-Type", fileMime)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("CreatePart: %v", err)
		}
		if _, err := part.Write(fileContent); err != nil {
			t.Fatalf("写入文件段: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("关闭 writer: %v", err)
	}
	return body, w.FormDataContentType()
}
