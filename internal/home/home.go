// Package home 缓存用户主目录，并提供路径缩写工具。
package home

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// 主目录在进程生命周期内不会变化，启动时解析一次。
var homedir, homedirErr = os.UserHomeDir()

func init() {
	if homedirErr != nil {
		slog.Error("获取用户主目录失败", "error", homedirErr)
	}
}

// Dir 返回用户主目录。获取失败时返回空字符串。
func Dir() string {
	return homedir
}

// Short 把路径中的主目录前缀缩写为 ~，用于展示。
// 路径不在主目录下时原样返回。
func Short(p string) string {
	if homedir == "" || !strings.HasPrefix(p, homedir) {
		return p
	}
	return filepath.Join("~", strings.TrimPrefix(p, homedir))
}
