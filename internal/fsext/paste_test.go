package fsext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitQuotedPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "单个路径",
			input: `"C:\docs\report.pdf"`,
			want:  []string{`C:\docs\report.pdf`},
		},
		{
			name:  "多个路径",
			input: `"C:\docs\report.pdf" "C:\docs\notes.txt"`,
			want:  []string{`C:\docs\report.pdf`, `C:\docs\notes.txt`},
		},
		{
			name:  "路径内含空格",
			input: `"C:\docs\年度 报告.docx" "C:\docs\会议 纪要.txt"`,
			want:  []string{`C:\docs\年度 报告.docx`, `C:\docs\会议 纪要.txt`},
		},
		{
			name:  "路径间多个空格",
			input: `"C:\a.pdf"    "C:\b.pdf"`,
			want:  []string{`C:\a.pdf`, `C:\b.pdf`},
		},
		{
			name:  "连续引号段",
			input: `"C:\a.pdf""C:\b.pdf"`,
			want:  []string{`C:\a.pdf`, `C:\b.pdf`},
		},
		{
			name:  "空字符串",
			input: "",
			want:  nil,
		},
		{
			name:  "仅空白字符",
			input: "   ",
			want:  nil,
		},
		{
			name:  "未闭合引号视为格式错误",
			input: `"C:\docs\report.pdf`,
			want:  nil,
		},
		{
			name:  "引号外的文本视为格式错误",
			input: `"C:\a.pdf" 多余文本 "C:\b.pdf"`,
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, splitQuotedPaths(tt.input))
		})
	}
}

func TestSplitEscapedPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "单个路径",
			input: `/docs/report.pdf`,
			want:  []string{"/docs/report.pdf"},
		},
		{
			name:  "多个路径",
			input: `/docs/report.pdf /docs/notes.txt`,
			want:  []string{"/docs/report.pdf", "/docs/notes.txt"},
		},
		{
			name:  "转义空格",
			input: `/docs/年度\ 报告.docx /docs/会议\ 纪要.txt`,
			want:  []string{"/docs/年度 报告.docx", "/docs/会议 纪要.txt"},
		},
		{
			name:  "连续转义空格",
			input: `/docs/a\ \ b.pdf`,
			want:  []string{"/docs/a  b.pdf"},
		},
		{
			name:  "双反斜杠",
			input: `/docs/my\\file.pdf`,
			want:  []string{"/docs/my\\file.pdf"},
		},
		{
			name:  "尾部反斜杠按字面保留",
			input: `/docs/file\`,
			want:  []string{`/docs/file\`},
		},
		{
			name:  "多个未转义空格作为分隔",
			input: `/docs/a.pdf   /docs/b.pdf`,
			want:  []string{"/docs/a.pdf", "/docs/b.pdf"},
		},
		{
			name:  "制表符不作为分隔符",
			input: "/docs/a.pdf\t/docs/b.pdf",
			want:  []string{"/docs/a.pdf\t/docs/b.pdf"},
		},
		{
			name:  "空字符串",
			input: "",
			want:  nil,
		},
		{
			name:  "仅空白字符",
			input: "   ",
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, splitEscapedPaths(tt.input))
		})
	}
}

func TestParsePastedFilesExistingPaths(t *testing.T) {
	// 当每行都是存在的普通文件时，按行拆分并原样返回
	dir := t.TempDir()
	a := writeTempDoc(t, dir, "report.pdf")
	b := writeTempDoc(t, dir, "notes.txt")

	got := ParsePastedFiles(a + "\n" + b)
	require.Equal(t, []string{a, b}, got)
}

func writeTempDoc(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}
