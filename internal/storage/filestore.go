// Package storage 实现了 PDF 文件仓库（File Store）：
// 一个存放上传文件的本地目录，以净化后的文件名寻址。
package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"parentfacile-go/pkg/log"
)

var (
	// 文件系统不安全字符（Windows 保留字符集），在展示名中统一替换为下划线。
	unsafeHeaderChars = regexp.MustCompile(`[\\/:*?"<>|]`)
	// 存储名只保留字母数字、下划线、空白、点与连字符。
	unsafeStoredChars = regexp.MustCompile(`[^\w\s.-]`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
)

// FileStore 是文件仓库的显式句柄，注入到需要读写文件的服务中。
type FileStore struct {
	dir string
}

// NewFileStore 创建文件仓库句柄并确保目录存在。
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建 PDF 目录失败: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir 返回仓库根目录的路径。
func (s *FileStore) Dir() string {
	return s.dir
}

// SafeBaseName 将任意来源的文件名裁剪为纯粹的基础名。
// 这是拼接路径前的强制安全控制：丢弃所有目录段，防止路径穿越。
func SafeBaseName(name string) string {
	// 反斜杠同样视为分隔符，避免跨平台来源的名字绕过 Base。
	cleaned := strings.ReplaceAll(name, "\\", "/")
	base := path.Base(cleaned)
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}

// CleanForHeader 生成用于 Content-Disposition 的展示名：
// 替换文件系统不安全字符并截断到 200 字符。
func CleanForHeader(name string) string {
	if name == "" {
		name = "document"
	}
	cleaned := unsafeHeaderChars.ReplaceAllString(name, "_")
	if len(cleaned) > 200 {
		cleaned = cleaned[:200]
	}
	return cleaned
}

// ContentDispositionFilename 构造 Content-Disposition 的文件名部分。
// 非 ASCII 名字按 RFC 5987 以 filename* 编码传递，并附带 ASCII 回退。
func ContentDispositionFilename(filename string) string {
	var fallback strings.Builder
	for _, r := range filename {
		if r >= 0x20 && r <= 0x7e {
			fallback.WriteRune(r)
		} else {
			fallback.WriteByte('_')
		}
	}
	return fmt.Sprintf(`filename="%s"; filename*=UTF-8''%s`, fallback.String(), percentEncode(filename))
}

// percentEncode 按 encodeURIComponent 的保留集对 UTF-8 字节做百分号编码。
func percentEncode(s string) string {
	const keep = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.!~*'()"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(keep, c) >= 0 {
			b.WriteByte(c)
		} else {
			b.WriteString(fmt.Sprintf("%%%02X", c))
		}
	}
	return b.String()
}

// StoredName 为上传文件生成抗冲突的存储名：
// 净化后的基础名 + 毫秒时间戳，扩展名强制为 .pdf。
func StoredName(originalName string) string {
	return storedNameAt(originalName, time.Now().UnixMilli())
}

func storedNameAt(originalName string, stampMillis int64) string {
	base := SafeBaseName(originalName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = unsafeStoredChars.ReplaceAllString(base, "_")
	base = whitespaceRun.ReplaceAllString(base, "_")
	if base == "" {
		base = "document"
	}
	return fmt.Sprintf("%s_%d.pdf", base, stampMillis)
}

// Resolve 将（净化后的）文件名拼接到仓库根目录。
func (s *FileStore) Resolve(name string) string {
	return filepath.Join(s.dir, SafeBaseName(name))
}

// Stat 返回文件的最新元信息。大小与修改时间每次读取时现查，
// 不信任 documents 表中记录的 file_size。
func (s *FileStore) Stat(name string) (os.FileInfo, error) {
	return os.Stat(s.Resolve(name))
}

// Open 打开文件用于流式读取。
func (s *FileStore) Open(name string) (*os.File, error) {
	return os.Open(s.Resolve(name))
}

// Save 将 src 的内容写入仓库中名为 storedName 的文件，返回写入字节数。
func (s *FileStore) Save(src io.Reader, storedName string) (int64, error) {
	dst, err := os.Create(s.Resolve(storedName))
	if err != nil {
		return 0, err
	}
	defer dst.Close()
	return io.Copy(dst, src)
}

// RemoveBestEffort 尽力删除一个文件并记录结果。
// 删除失败（包括文件本就不存在）只写日志、不向调用方传播：
// 孤儿文件的清理失败不允许阻断主操作。返回是否真正删除了文件。
func (s *FileStore) RemoveBestEffort(name string) bool {
	if SafeBaseName(name) == "" {
		return false
	}
	target := s.Resolve(name)
	if err := os.Remove(target); err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("清理文件失败（忽略）: %s, err=%v", target, err)
		} else {
			log.Infof("清理文件时文件已不存在: %s", target)
		}
		return false
	}
	log.Infof("已清理文件: %s", target)
	return true
}
