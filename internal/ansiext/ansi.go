package ansiext

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Escape 将控制字符替换为对应的 Unicode 控制图符，
// 防止用户输入中的转义序列污染终端渲染。
func Escape(content string) string {
	var sb strings.Builder
	sb.Grow(len(content))
	for _, r := range content {
		switch {
		case r >= 0 && r <= 0x1f:
			sb.WriteRune('\u2400' + r)
		case r == ansi.DEL:
			sb.WriteRune('\u2421')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
