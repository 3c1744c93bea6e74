//go:build windows

package fsext

import "os"

// Owner 在 Windows 上没有 uid 概念，存在性检查通过后统一返回 -1，
// 让调用方跳过所有权比较。
func Owner(path string) (int, error) {
	_, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return -1, nil
}
