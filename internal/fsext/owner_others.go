//go:build !windows

package fsext

import (
	"os"
	"syscall"
)

// Owner 返回路径所指文件或目录的属主 uid。
// stat 信息不可用时退回当前进程的 uid。
func Owner(path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	var uid int
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		uid = int(stat.Uid)
	} else {
		uid = os.Getuid()
	}
	return uid, nil
}
