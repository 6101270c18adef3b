// Package service 包含了应用的业务逻辑层。
package service

import "errors"

// 业务错误哨兵。handler 层通过 errors.Is 将其映射为 HTTP 状态码，
// 错误文案即对外响应中的 message（与前端约定为法语）。
var (
	// ErrDocumentNotFound 表示 documents 表中不存在该 id。
	ErrDocumentNotFound = errors.New("Document introuvable")
	// ErrFileMissing 表示记录存在但 File Store 中对应文件已缺失。
	ErrFileMissing = errors.New("Fichier manquant")
	// ErrNoDocuments 表示文档表为空，无法生成归档。
	ErrNoDocuments = errors.New("Aucun document")
	// ErrInvalidCredentials 统一表示登录失败。
	// 不区分“邮箱不存在”与“密码错误”，避免账号枚举。
	ErrInvalidCredentials = errors.New("Identifiants invalides")
	// ErrDocKeyExists 表示 doc_key 唯一键冲突，按校验错误对外暴露。
	ErrDocKeyExists = errors.New("doc_key déjà utilisé")
)
