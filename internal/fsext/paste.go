package fsext

import (
	"os"
	"strings"
)

// ParsePastedFiles 把终端粘贴进来的文本解析为文件路径列表。
// 先假定整段内容是按行排列的现成路径，否则按终端习惯拆分：
// Windows Terminal 用引号包裹路径，其余终端用反斜杠转义空格。
func ParsePastedFiles(s string) []string {
	s = strings.TrimSpace(s)

	// Rio 终端在 Windows 上粘贴时会混入 NULL 字符。
	s = strings.ReplaceAll(s, "\x00", "")

	switch {
	case linesAreFiles(s):
		return strings.Split(s, "\n")
	case os.Getenv("WT_SESSION") != "":
		return splitQuotedPaths(s)
	default:
		return splitEscapedPaths(s)
	}
}

// linesAreFiles 判断每一行是否都是存在的普通文件。
func linesAreFiles(s string) bool {
	for path := range strings.SplitSeq(s, "\n") {
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			return false
		}
	}
	return true
}

// splitQuotedPaths 解析 Windows Terminal 风格的粘贴内容：
// 每个路径都包在双引号里，引号之间只允许空格。
// 引号未闭合或出现引号外的文本时视为格式错误，返回 nil。
func splitQuotedPaths(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var (
		paths    []string
		current  strings.Builder
		inQuotes bool
	)
	for i := range len(s) {
		ch := s[i]
		switch {
		case ch == '"':
			if inQuotes && current.Len() > 0 {
				paths = append(paths, current.String())
				current.Reset()
			}
			inQuotes = !inQuotes
		case inQuotes:
			current.WriteByte(ch)
		case ch != ' ':
			return nil
		}
	}

	if inQuotes {
		return nil
	}
	if current.Len() > 0 {
		paths = append(paths, current.String())
	}
	return paths
}

// splitEscapedPaths 解析类 Unix 终端的粘贴内容：
// 路径之间以空格分隔，路径内的空格用反斜杠转义。
func splitEscapedPaths(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var (
		paths   []string
		current strings.Builder
		escaped bool
	)
	for i := range len(s) {
		ch := s[i]
		switch {
		case escaped:
			current.WriteByte(ch)
			escaped = false
		case ch == '\\':
			if i == len(s)-1 {
				// 尾部反斜杠按字面值保留
				current.WriteByte(ch)
			} else {
				escaped = true
			}
		case ch == ' ':
			if current.Len() > 0 {
				paths = append(paths, current.String())
				current.Reset()
			}
		default:
			current.WriteByte(ch)
		}
	}

	if current.Len() > 0 {
		paths = append(paths, current.String())
	}
	return paths
}
