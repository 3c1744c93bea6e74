// Package validation 提供文件与邮箱输入的纯函数校验
// 所有函数无副作用且确定，校验失败以带类型的错误返回给调用方，
// 由调用方（UI 层）负责向用户呈现
package validation

import (
	"fmt"
	"maps"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
)

// 文件校验策略常量
const (
	// MaxFileSize 单个附件的最大字节数（10 MiB）
	MaxFileSize int64 = 10 * 1024 * 1024
	// MaxPendingFiles 待发送附件列表的最大长度
	MaxPendingFiles = 3
	// MaxEmailLength 邮箱地址的最大长度
	MaxEmailLength = 254
)

// AllowedMimeTypes 允许上传的 MIME 类型白名单
var AllowedMimeTypes = []string{
	"application/pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/msword",
	"text/plain",
}

// FileErrorKind 文件校验失败的类别
type FileErrorKind string

const (
	FileTooLarge      FileErrorKind = "too_large"      // 文件超出大小限制
	FileInvalidType   FileErrorKind = "invalid_type"   // 文件类型不在白名单内
	FileLimitExceeded FileErrorKind = "limit_exceeded" // 待发送附件已达上限
)

// FileError 文件校验错误
type FileError struct {
	Kind FileErrorKind // 失败类别
	Name string        // 被校验的文件名
}

func (e *FileError) Error() string {
	switch e.Kind {
	case FileTooLarge:
		return fmt.Sprintf("文件 %s 超出大小限制（最大 %s）", e.Name, humanize.IBytes(uint64(MaxFileSize)))
	case FileInvalidType:
		return fmt.Sprintf("文件 %s 类型不受支持（仅允许 PDF、DOC、DOCX 和纯文本）", e.Name)
	case FileLimitExceeded:
		return fmt.Sprintf("最多只能添加 %d 个附件", MaxPendingFiles)
	}
	return "文件校验失败"
}

// ValidateFile 按固定策略校验一个待上传文件
// 返回 nil 表示通过；否则返回 [*FileError]，其 Kind 说明失败原因
func ValidateFile(name string, size int64, mimeType string) error {
	if size > MaxFileSize {
		return &FileError{Kind: FileTooLarge, Name: name}
	}
	if !slices.Contains(AllowedMimeTypes, mimeType) {
		return &FileError{Kind: FileInvalidType, Name: name}
	}
	return nil
}

// mimeByExt 按扩展名推断 MIME 类型
// 终端环境拿不到浏览器那样的文件类型元数据，扩展名是唯一依据
var mimeByExt = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
}

// MimeForPath 根据文件路径的扩展名返回 MIME 类型
// 无法识别的扩展名返回 application/octet-stream，让后续校验拒绝它
func MimeForPath(path string) string {
	if mime, ok := mimeByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return mime
	}
	return "application/octet-stream"
}

// AllowedExtensions 返回允许上传的扩展名列表
func AllowedExtensions() []string {
	exts := slices.Sorted(maps.Keys(mimeByExt))
	return exts
}

// EmailErrorKind 邮箱校验失败的类别
type EmailErrorKind string

const (
	EmailTooLong       EmailErrorKind = "too_long"       // 地址过长
	EmailInvalidFormat EmailErrorKind = "invalid_format" // 不符合 user@domain 格式
	EmailMalformedDots EmailErrorKind = "malformed_dots" // 连续、开头或结尾的点号
)

// EmailError 邮箱校验错误
type EmailError struct {
	Kind EmailErrorKind // 失败类别
}

func (e *EmailError) Error() string {
	switch e.Kind {
	case EmailTooLong:
		return "邮箱地址过长"
	case EmailInvalidFormat:
		return "请输入有效的邮箱地址"
	case EmailMalformedDots:
		return "邮箱地址不能包含连续的点号，也不能以点号开头或结尾"
	}
	return "邮箱校验失败"
}

// emailRegex 标准 user@domain 格式
var emailRegex = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

// ValidateEmail 校验反馈表单中的邮箱地址
// 空字符串视为有效（该字段为可选项）；其余情况依次检查长度、
// 整体格式和点号位置，返回 nil 或 [*EmailError]
func ValidateEmail(address string) error {
	if address == "" {
		return nil
	}
	if len(address) > MaxEmailLength {
		return &EmailError{Kind: EmailTooLong}
	}
	if !emailRegex.MatchString(address) {
		return &EmailError{Kind: EmailInvalidFormat}
	}
	if containsConsecutiveDots(address) {
		return &EmailError{Kind: EmailMalformedDots}
	}
	if address[0] == '.' || address[len(address)-1] == '.' {
		return &EmailError{Kind: EmailMalformedDots}
	}
	return nil
}

func containsConsecutiveDots(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '.' && s[i+1] == '.' {
			return true
		}
	}
	return false
}
