package fsext

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/purpose168/floatchat-cn/internal/home"
)

// Lookup 从 dir 开始逐级向上收集所有存在的目标文件，直到文件系统根目录。
// 返回顺序为由深到浅，起始目录本身也参与搜索。
// 与起始目录所有者不一致的文件会被跳过，避免把搜索带出所有权边界。
func Lookup(dir string, targets ...string) ([]string, error) {
	if len(targets) == 0 {
		return nil, nil
	}

	var found []string
	err := climb(dir, func(cwd string, owner int) error {
		for _, target := range targets {
			fpath := filepath.Join(cwd, target)
			switch err := statOwned(fpath, owner); {
			case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
				continue
			case err != nil:
				return fmt.Errorf("探测 %s 失败: %w", fpath, err)
			}
			found = append(found, fpath)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// LookupClosest 从 dir 开始向上查找最近的一个目标，找到即停。
// 主目录下的命中会被忽略，主目录本身是搜索的上界。
// 找到时返回完整路径和 true。
func LookupClosest(dir, target string) (string, bool) {
	var found string
	err := climb(dir, func(cwd string, owner int) error {
		fpath := filepath.Join(cwd, target)
		switch err := statOwned(fpath, owner); {
		case errors.Is(err, os.ErrNotExist):
			return nil
		case err != nil:
			return fmt.Errorf("探测 %s 失败: %w", fpath, err)
		}
		if cwd != home.Dir() {
			found = fpath
		}
		return filepath.SkipAll
	})
	return found, err == nil && found != ""
}

// climb 逐级向上遍历目录并调用 walkFn，直到根目录或 walkFn 返回 SkipAll。
// owner 是起始目录的所有者 ID，由回调自行决定如何使用。
func climb(dir string, walkFn func(dir string, owner int) error) error {
	cwd, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("无法解析绝对路径: %w", err)
	}

	owner, err := Owner(dir)
	if err != nil {
		return fmt.Errorf("无法获取所有权: %w", err)
	}

	for {
		switch err := walkFn(cwd, owner); {
		case err == nil, errors.Is(err, filepath.SkipDir):
			parent := filepath.Dir(cwd)
			if parent == cwd {
				return nil
			}
			cwd = parent
		case errors.Is(err, filepath.SkipAll):
			return nil
		default:
			return err
		}
	}
}

// statOwned 确认路径存在且属于 owner；owner 为 -1 时跳过所有权检查。
func statOwned(fspath string, owner int) error {
	if _, err := os.Stat(fspath); err != nil {
		return fmt.Errorf("无法获取 %s 的文件状态: %w", fspath, err)
	}

	if owner == -1 {
		return nil
	}

	fowner, err := Owner(fspath)
	if err != nil {
		return fmt.Errorf("无法获取 %s 的所有权: %w", fspath, err)
	}
	if fowner != owner {
		return os.ErrPermission
	}
	return nil
}
