package fsext

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/purpose168/floatchat-cn/internal/home"
	"github.com/stretchr/testify/require"
)

func TestLookupClosest(t *testing.T) {
	tempDir := t.TempDir()
	t.Chdir(tempDir)

	t.Run("在起始目录中命中", func(t *testing.T) {
		testDir := t.TempDir()
		target := filepath.Join(testDir, "floatchat.json")
		require.NoError(t, os.WriteFile(target, []byte("{}"), 0o644))

		found, ok := LookupClosest(testDir, "floatchat.json")
		require.True(t, ok)
		require.Equal(t, target, found)
	})

	t.Run("在祖先目录中命中最近的一个", func(t *testing.T) {
		testDir := t.TempDir()
		subDir := filepath.Join(testDir, "a", "b")
		require.NoError(t, os.MkdirAll(subDir, 0o755))

		target := filepath.Join(testDir, "floatchat.json")
		require.NoError(t, os.WriteFile(target, []byte("{}"), 0o644))

		found, ok := LookupClosest(subDir, "floatchat.json")
		require.True(t, ok)
		require.Equal(t, target, found)
	})

	t.Run("目标可以是目录", func(t *testing.T) {
		testDir := t.TempDir()
		dataDir := filepath.Join(testDir, ".floatchat")
		require.NoError(t, os.Mkdir(dataDir, 0o755))

		found, ok := LookupClosest(testDir, ".floatchat")
		require.True(t, ok)
		require.Equal(t, dataDir, found)
	})

	t.Run("未命中", func(t *testing.T) {
		found, ok := LookupClosest(t.TempDir(), "nonexistent.json")
		require.False(t, ok)
		require.Empty(t, found)
	})

	t.Run("主目录是搜索上界", func(t *testing.T) {
		// 无法在主目录之上布置测试文件，退而从主目录本身出发验证
		found, ok := LookupClosest(home.Dir(), "floatchat_nonexistent_12345.json")
		require.False(t, ok)
		require.Empty(t, found)
	})

	t.Run("无效的起始目录", func(t *testing.T) {
		found, ok := LookupClosest("/invalid/path/that/does/not/exist", "floatchat.json")
		require.False(t, ok)
		require.Empty(t, found)
	})

	t.Run("相对路径", func(t *testing.T) {
		require.NoError(t, os.WriteFile("floatchat.json", []byte("{}"), 0o644))

		found, ok := LookupClosest(".", "floatchat.json")
		require.True(t, ok)

		// 解析符号链接，规避 macOS 上 /private/var 与 /var 的差异
		want, err := filepath.EvalSymlinks(filepath.Join(tempDir, "floatchat.json"))
		require.NoError(t, err)
		got, err := filepath.EvalSymlinks(found)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})
}

func TestLookup(t *testing.T) {
	tempDir := t.TempDir()
	t.Chdir(tempDir)

	t.Run("无目标时返回空", func(t *testing.T) {
		found, err := Lookup(t.TempDir())
		require.NoError(t, err)
		require.Empty(t, found)
	})

	t.Run("收集多个层级的多个目标", func(t *testing.T) {
		testDir := t.TempDir()
		subDir := filepath.Join(testDir, "project")
		require.NoError(t, os.Mkdir(subDir, 0o755))

		global := filepath.Join(testDir, "floatchat.json")
		local := filepath.Join(subDir, ".floatchat.json")
		require.NoError(t, os.WriteFile(global, []byte("{}"), 0o644))
		require.NoError(t, os.WriteFile(local, []byte("{}"), 0o644))

		found, err := Lookup(subDir, "floatchat.json", ".floatchat.json")
		require.NoError(t, err)
		require.Len(t, found, 2)
		require.Contains(t, found, global)
		require.Contains(t, found, local)
	})

	t.Run("忽略不存在的目标", func(t *testing.T) {
		testDir := t.TempDir()
		target := filepath.Join(testDir, "floatchat.json")
		require.NoError(t, os.WriteFile(target, []byte("{}"), 0o644))

		found, err := Lookup(testDir, "floatchat.json", "missing.json")
		require.NoError(t, err)
		require.Equal(t, []string{target}, found)
	})

	t.Run("全部未命中时返回空", func(t *testing.T) {
		found, err := Lookup(t.TempDir(), "a.json", "b.json")
		require.NoError(t, err)
		require.Empty(t, found)
	})

	t.Run("无效的起始目录", func(t *testing.T) {
		found, err := Lookup("/invalid/path/that/does/not/exist", "floatchat.json")
		require.Error(t, err)
		require.Empty(t, found)
	})
}

func TestStatOwned(t *testing.T) {
	t.Run("所有者一致", func(t *testing.T) {
		tempDir := t.TempDir()
		testFile := filepath.Join(tempDir, "test.txt")
		require.NoError(t, os.WriteFile(testFile, []byte("test"), 0o644))

		owner, err := Owner(tempDir)
		require.NoError(t, err)
		require.NoError(t, statOwned(testFile, owner))
	})

	t.Run("不存在的文件", func(t *testing.T) {
		err := statOwned(filepath.Join(t.TempDir(), "missing.txt"), -1)
		require.Error(t, err)
		require.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("负一跳过所有权检查", func(t *testing.T) {
		tempDir := t.TempDir()
		testFile := filepath.Join(tempDir, "test.txt")
		require.NoError(t, os.WriteFile(testFile, []byte("test"), 0o644))
		require.NoError(t, statOwned(testFile, -1))
	})

	t.Run("所有者不一致返回权限错误", func(t *testing.T) {
		tempDir := t.TempDir()
		testFile := filepath.Join(tempDir, "test.txt")
		require.NoError(t, os.WriteFile(testFile, []byte("test"), 0o644))

		err := statOwned(testFile, 9999)
		require.Error(t, err)
		require.True(t, errors.Is(err, os.ErrPermission))
	})
}
