package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/purpose168/floatchat-cn/internal/config"
	"github.com/purpose168/floatchat-cn/internal/db"
	"github.com/purpose168/floatchat-cn/internal/message"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	conn, err := db.Connect(t.Context(), t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Widget.BotName = "测试客服"

	a, err := New(t.Context(), conn, cfg)
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)
	return a
}

func TestNewWiresStore(t *testing.T) {
	t.Parallel()
	a := newTestApp(t)

	require.Equal(t, "测试客服", a.Store.Options().BotName)
	require.Empty(t, a.Store.State().Messages)
}

func TestMessagesSurviveRestart(t *testing.T) {
	t.Parallel()
	dataDir := t.TempDir()

	conn, err := db.Connect(t.Context(), dataDir)
	require.NoError(t, err)
	a, err := New(t.Context(), conn, &config.Config{})
	require.NoError(t, err)

	a.Store.AddMessage("重启前的消息", message.User, nil)
	a.Store.Save(t.Context())
	a.Shutdown()

	conn2, err := db.Connect(t.Context(), dataDir)
	require.NoError(t, err)
	a2, err := New(t.Context(), conn2, &config.Config{})
	require.NoError(t, err)
	t.Cleanup(a2.Shutdown)

	msgs := a2.Store.State().Messages
	require.Len(t, msgs, 1)
	require.Equal(t, "重启前的消息", msgs[0].Content)
}

func TestShutdownFlushesDebouncedChanges(t *testing.T) {
	t.Parallel()
	dataDir := t.TempDir()

	conn, err := db.Connect(t.Context(), dataDir)
	require.NoError(t, err)
	a, err := New(t.Context(), conn, &config.Config{})
	require.NoError(t, err)

	// 不显式 Save：变更还在防抖窗口里，必须由关闭流程在
	// 数据库连接关闭之前落盘
	a.Store.AddMessage("退出前最后一条", message.User, nil)
	a.Shutdown()

	conn2, err := db.Connect(t.Context(), dataDir)
	require.NoError(t, err)
	a2, err := New(t.Context(), conn2, &config.Config{})
	require.NoError(t, err)
	t.Cleanup(a2.Shutdown)

	msgs := a2.Store.State().Messages
	require.Len(t, msgs, 1)
	require.Equal(t, "退出前最后一条", msgs[0].Content)
}
