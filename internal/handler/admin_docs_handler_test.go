package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"parentfacile-go/internal/model"
)

func TestAdminDocsRequireAuth(t *testing.T) {
	app := newTestApp(t)

	cases := []struct{ method, path string }{
		{http.MethodGet, "/api/admin/docs"},
		{http.MethodPost, "/api/admin/docs"},
		{http.MethodPut, "/api/admin/docs/1"},
		{http.MethodDelete, "/api/admin/docs/1"},
		{http.MethodGet, "/api/admin/messages"},
		{http.MethodGet, "/api/admin/messages/all"},
	}
	for _, c := range cases {
		w := app.do(httptest.NewRequest(c.method, c.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: code = %d, want 401", c.method, c.path, w.Code)
		}
	}
}

func TestAdminCreateDocumentRoundTrip(t *testing.T) {
	app := newTestApp(t)
	tokenString := app.seedAdmin(t)
	content := []byte("%PDF-1.4 nouveau document")

	body, contentType := multipartBody(t, map[string]string{
		"label":      "Déclaration de naissance",
		"tag":        "Naissance",
		"doc_key":    "decl-naissance",
		"sort_order": "2",
	}, "ma déclaration.pdf", content, "application/pdf")

	req := httptest.NewRequest(http.MethodPost, "/api/admin/docs", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := app.do(req)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		OK        bool   `json:"ok"`
		ID        uint   `json:"id"`
		PublicURL string `json:"public_url"`
		FileName  string `json:"file_name"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !resp.OK || resp.ID == 0 || resp.PublicURL != "/pdfs/"+resp.FileName {
		t.Errorf("响应不符: %+v", resp)
	}

	// 创建后立即下载：内容逐字节一致
	dl := app.do(authedRequest(http.MethodGet, "/api/docs/"+itoa(resp.ID)+"/download", tokenString))
	if dl.Code != http.StatusOK {
		t.Fatalf("download: code = %d, body = %s", dl.Code, dl.Body.String())
	}
	if dl.Body.String() != string(content) {
		t.Error("下载内容与上传内容不一致")
	}
}

func TestAdminCreateValidation(t *testing.T) {
	app := newTestApp(t)
	tokenString := app.seedAdmin(t)

	// 缺必填字段
	body, ct := multipartBody(t, map[string]string{"label": "X"}, "a.pdf", []byte("%PDF"), "application/pdf")
	w := app.do(authedMultipart(http.MethodPost, "/api/admin/docs", body, ct, tokenString))
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "label, tag, doc_key requis") {
		t.Errorf("缺字段: code = %d, body = %s", w.Code, w.Body.String())
	}

	// 缺文件
	body, ct = multipartBody(t, map[string]string{"label": "X", "tag": "Divers", "doc_key": "x"}, "", nil, "")
	w = app.do(authedMultipart(http.MethodPost, "/api/admin/docs", body, ct, tokenString))
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "PDF manquant") {
		t.Errorf("缺文件: code = %d, body = %s", w.Code, w.Body.String())
	}

	// 声明的 MIME 不是 application/pdf
	body, ct = multipartBody(t, map[string]string{"label": "X", "tag": "Divers", "doc_key": "x"}, "a.png", []byte("PNG"), "image/png")
	w = app.do(authedMultipart(http.MethodPost, "/api/admin/docs", body, ct, tokenString))
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Seuls les PDF sont acceptés") {
		t.Errorf("MIME: code = %d, body = %s", w.Code, w.Body.String())
	}

	// sort_order 非数字
	body, ct = multipartBody(t, map[string]string{"label": "X", "tag": "Divers", "doc_key": "x", "sort_order": "abc"}, "a.pdf", []byte("%PDF"), "application/pdf")
	w = app.do(authedMultipart(http.MethodPost, "/api/admin/docs", body, ct, tokenString))
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "sort_order invalide") {
		t.Errorf("sort_order: code = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestAdminCreateDuplicateDocKey(t *testing.T) {
	app := newTestApp(t)
	tokenString := app.seedAdmin(t)

	fields := map[string]string{"label": "A", "tag": "Divers", "doc_key": "dup"}
	body, ct := multipartBody(t, fields, "a.pdf", []byte("%PDF a"), "application/pdf")
	if w := app.do(authedMultipart(http.MethodPost, "/api/admin/docs", body, ct, tokenString)); w.Code != http.StatusOK {
		t.Fatalf("首次创建: code = %d, body = %s", w.Code, w.Body.String())
	}

	body, ct = multipartBody(t, fields, "b.pdf", []byte("%PDF b"), "application/pdf")
	w := app.do(authedMultipart(http.MethodPost, "/api/admin/docs", body, ct, tokenString))
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "doc_key déjà utilisé") {
		t.Errorf("code = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestAdminUpdateDocument(t *testing.T) {
	app := newTestApp(t)
	tokenString := app.seedAdmin(t)
	doc := app.seedDocument(t, model.Document{DocKey: "k", Label: "Ancien", Tag: "Divers", SortOrder: 5, FileName: "a_1.pdf", PublicURL: "/pdfs/a_1.pdf"}, "%PDF ancien")

	// 只改 label，无文件
	body, ct := multipartBody(t, map[string]string{"label": "Nouveau"}, "", nil, "")
	w := app.do(authedMultipart(http.MethodPut, "/api/admin/docs/"+itoa(doc.ID), body, ct, tokenString))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Document mis à jour") {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}

	var got model.Document
	if err := app.db.First(&got, doc.ID).Error; err != nil {
		t.Fatalf("relire: %v", err)
	}
	if got.Label != "Nouveau" || got.SortOrder != 5 || got.FileName != "a_1.pdf" {
		t.Errorf("部分更新不符: %+v", got)
	}

	// 未知 id
	body, ct = multipartBody(t, map[string]string{"label": "X"}, "", nil, "")
	w = app.do(authedMultipart(http.MethodPut, "/api/admin/docs/999999", body, ct, tokenString))
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "Introuvable") {
		t.Errorf("未知 id: code = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestAdminDeleteDocument(t *testing.T) {
	app := newTestApp(t)
	tokenString := app.seedAdmin(t)
	doc := app.seedDocument(t, model.Document{DocKey: "k", Label: "Doc", Tag: "Divers", FileName: "a_1.pdf", PublicURL: "/pdfs/a_1.pdf"}, "%PDF a")

	w := app.do(authedRequest(http.MethodDelete, "/api/admin/docs/"+itoa(doc.ID), tokenString))
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}

	// 删除后公开下载转为 404
	if w := app.do(httptest.NewRequest(http.MethodGet, "/api/docs/"+itoa(doc.ID)+"/download", nil)); w.Code != http.StatusNotFound {
		t.Errorf("删除后下载: code = %d, want 404", w.Code)
	}

	// 再次删除：404
	w = app.do(authedRequest(http.MethodDelete, "/api/admin/docs/"+itoa(doc.ID), tokenString))
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "Introuvable") {
		t.Errorf("重复删除: code = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestAdminListGrouped(t *testing.T) {
	app := newTestApp(t)
	tokenString := app.seedAdmin(t)
	app.seedDocument(t, model.Document{DocKey: "b", Label: "B", Tag: "Naissance", SortOrder: 1, FileName: "b.pdf", PublicURL: "/pdfs/b.pdf"}, "")
	app.seedDocument(t, model.Document{DocKey: "a", Label: "A", Tag: "Grossesse", SortOrder: 1, FileName: "a.pdf", PublicURL: "/pdfs/a.pdf"}, "")

	w := app.do(authedRequest(http.MethodGet, "/api/admin/docs", tokenString))
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		OK        bool             `json:"ok"`
		Documents []model.Document `json:"documents"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	// 后台列表按 tag 字面序（非类目优先级）
	if len(resp.Documents) != 2 || resp.Documents[0].DocKey != "a" {
		t.Errorf("后台列表不符: %+v", resp.Documents)
	}
}
