package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidateFile 测试文件校验的各种边界情况
func TestValidateFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fileName string
		size     int64
		mimeType string
		wantKind FileErrorKind // 为空表示期望通过
	}{
		{
			name:     "有效的1KB纯文本文件",
			fileName: "notes.txt",
			size:     1024,
			mimeType: "text/plain",
			wantKind: "",
		},
		{
			name:     "有效的PDF文件",
			fileName: "report.pdf",
			size:     MaxFileSize,
			mimeType: "application/pdf",
			wantKind: "",
		},
		{
			name:     "11MiB的文件超出大小限制",
			fileName: "big.pdf",
			size:     11 * 1024 * 1024,
			mimeType: "application/pdf",
			wantKind: FileTooLarge,
		},
		{
			name:     "PNG图片类型不在白名单内",
			fileName: "photo.png",
			size:     1024,
			mimeType: "image/png",
			wantKind: FileInvalidType,
		},
		{
			name:     "超大且类型非法时大小检查优先",
			fileName: "huge.png",
			size:     20 * 1024 * 1024,
			mimeType: "image/png",
			wantKind: FileTooLarge,
		},
		{
			name:     "DOCX类型有效",
			fileName: "doc.docx",
			size:     100,
			mimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			wantKind: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateFile(tt.fileName, tt.size, tt.mimeType)
			if tt.wantKind == "" {
				require.NoError(t, err)
				return
			}
			var fileErr *FileError
			require.ErrorAs(t, err, &fileErr)
			require.Equal(t, tt.wantKind, fileErr.Kind)
		})
	}
}

// TestValidateEmail 测试邮箱校验的各种边界情况
func TestValidateEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		address  string
		wantKind EmailErrorKind // 为空表示期望通过
	}{
		{
			name:     "空字符串有效（字段可选）",
			address:  "",
			wantKind: "",
		},
		{
			name:     "常规地址有效",
			address:  "good@example.com",
			wantKind: "",
		},
		{
			name:     "带加号和下划线的地址有效",
			address:  "user+tag_1@example.co.uk",
			wantKind: "",
		},
		{
			name:     "连续点号",
			address:  "a..b@x.com",
			wantKind: EmailMalformedDots,
		},
		{
			name:     "以点号开头",
			address:  ".a@x.com",
			wantKind: EmailMalformedDots,
		},
		{
			name:     "缺少@符号",
			address:  "not-an-email",
			wantKind: EmailInvalidFormat,
		},
		{
			name:     "缺少顶级域名",
			address:  "user@host",
			wantKind: EmailInvalidFormat,
		},
		{
			name:     "超过254个字符",
			address:  strings.Repeat("a", 250) + "@x.com",
			wantKind: EmailTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateEmail(tt.address)
			if tt.wantKind == "" {
				require.NoError(t, err)
				return
			}
			var emailErr *EmailError
			require.ErrorAs(t, err, &emailErr)
			require.Equal(t, tt.wantKind, emailErr.Kind)
		})
	}
}

// TestMimeForPath 测试按扩展名推断 MIME 类型
func TestMimeForPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"report.pdf", "application/pdf"},
		{"/tmp/上传/Notes.TXT", "text/plain"},
		{"old.doc", "application/msword"},
		{"new.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"photo.png", "application/octet-stream"},
		{"noext", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, MimeForPath(tt.path))
		})
	}
}

// TestAllowedExtensions 结果有序且与白名单互相印证
func TestAllowedExtensions(t *testing.T) {
	t.Parallel()

	exts := AllowedExtensions()
	require.Equal(t, []string{".doc", ".docx", ".pdf", ".txt"}, exts)
	for _, ext := range exts {
		require.NoError(t, ValidateFile("f"+ext, 1, MimeForPath("f"+ext)))
	}
}

// TestValidateEmail_Deterministic 测试校验函数对同一输入的结果稳定
func TestValidateEmail_Deterministic(t *testing.T) {
	t.Parallel()

	for range 10 {
		require.NoError(t, ValidateEmail("good@example.com"))
		require.Error(t, ValidateEmail("a..b@x.com"))
	}
}
