// Package stringext 提供字符串处理相关的扩展功能
package stringext

import (
	"strings"
)

// NormalizeSpace 规范化给定内容字符串中的空白字符
// 将 Windows 风格换行统一为 Unix 风格，制表符展开为四个空格，
// 并去除首尾空白
func NormalizeSpace(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\t", "    ")
	content = strings.TrimSpace(content)
	return content
}
