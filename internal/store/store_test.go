package store

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/purpose168/floatchat-cn/internal/message"
	"github.com/purpose168/floatchat-cn/internal/pubsub"
	"github.com/purpose168/floatchat-cn/internal/storage"
	"github.com/purpose168/floatchat-cn/internal/theme"
	"github.com/purpose168/floatchat-cn/internal/validation"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(t *testing.T, adapter storage.Adapter) *Store {
	t.Helper()
	s := New(t.Context(), DefaultOptions(), adapter)
	t.Cleanup(s.Close)
	return s
}

func TestAddMessagePreservesOrder(t *testing.T) {
	t.Parallel()
	s := newTestStore(t, storage.NewMemory())

	const n = 25
	for i := range n {
		s.AddMessage(fmt.Sprintf("message %d", i), message.User, nil)
	}

	msgs := s.State().Messages
	require.Len(t, msgs, n)
	for i, m := range msgs {
		require.Equal(t, fmt.Sprintf("message %d", i), m.Content)
	}
}

func TestAddFileEnforcesLimit(t *testing.T) {
	t.Parallel()
	s := newTestStore(t, storage.NewMemory())

	for i := range 3 {
		err := s.AddFile(fmt.Sprintf("doc%d.pdf", i), 1024, "application/pdf", "")
		require.NoError(t, err)
	}

	err := s.AddFile("one-too-many.pdf", 1024, "application/pdf", "")
	var ferr *validation.FileError
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, validation.FileLimitExceeded, ferr.Kind)
	require.Len(t, s.State().PendingAttachments, 3)
}

func TestAddFileRejectsInvalidWithoutStateChange(t *testing.T) {
	t.Parallel()
	s := newTestStore(t, storage.NewMemory())

	require.Error(t, s.AddFile("huge.pdf", 11<<20, "application/pdf", ""))
	require.Error(t, s.AddFile("cat.png", 1024, "image/png", ""))
	require.Empty(t, s.State().PendingAttachments)
}

func TestRemoveFileUnknownIDIsNoop(t *testing.T) {
	t.Parallel()
	s := newTestStore(t, storage.NewMemory())

	require.NoError(t, s.AddFile("doc.pdf", 1024, "application/pdf", ""))
	s.RemoveFile("no-such-id")
	require.Len(t, s.State().PendingAttachments, 1)

	s.RemoveFile(s.State().PendingAttachments[0].ID)
	require.Empty(t, s.State().PendingAttachments)
}

func TestClearFilesIdempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t, storage.NewMemory())

	require.NoError(t, s.AddFile("doc.pdf", 1024, "application/pdf", ""))
	s.ClearFiles()
	require.Empty(t, s.State().PendingAttachments)
	s.ClearFiles()
	require.Empty(t, s.State().PendingAttachments)
}

func TestUpdateMessageFeedback(t *testing.T) {
	t.Parallel()
	s := newTestStore(t, storage.NewMemory())

	s.AddMessage("你好", message.Bot, nil)
	id := s.State().Messages[0].ID

	s.UpdateMessageFeedback(id, message.Upvote)
	require.Equal(t, message.Upvote, s.State().Messages[0].Feedback)

	s.UpdateMessageFeedback(id, message.FeedbackNone)
	require.Equal(t, message.FeedbackNone, s.State().Messages[0].Feedback)
}

func TestUpdateMessageFeedbackUnknownIDIsNoop(t *testing.T) {
	t.Parallel()
	s := newTestStore(t, storage.NewMemory())

	s.AddMessage("你好", message.Bot, nil)
	s.UpdateMessageFeedback("no-such-id", message.Downvote)

	require.Equal(t, message.FeedbackNone, s.State().Messages[0].Feedback)
}

func TestToggleChatAndFullscreenIndependent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t, storage.NewMemory())

	s.ToggleChat()
	require.True(t, s.State().IsOpen)
	require.False(t, s.State().IsFullscreen)

	s.ToggleFullscreen()
	require.True(t, s.State().IsFullscreen)

	s.ToggleChat()
	require.False(t, s.State().IsOpen)
	require.True(t, s.State().IsFullscreen)
}

func TestClearChatKeepsThemeAndWindowState(t *testing.T) {
	t.Parallel()
	s := newTestStore(t, storage.NewMemory())

	s.ToggleChat()
	s.SetTheme(theme.Dark)
	s.AddMessage("你好", message.User, nil)
	require.NoError(t, s.AddFile("doc.pdf", 1024, "application/pdf", ""))

	s.ClearChat()

	st := s.State()
	require.Empty(t, st.Messages)
	require.Empty(t, st.PendingAttachments)
	require.Equal(t, theme.Dark, st.Theme)
	require.True(t, st.IsOpen)
}

func TestPersistRoundTrip(t *testing.T) {
	t.Parallel()
	adapter := storage.NewMemory()

	s1 := New(t.Context(), DefaultOptions(), adapter)
	s1.SetTheme(theme.Dark)
	s1.AddMessage("第一条", message.User, nil)
	s1.AddMessage("第二条", message.Bot, nil)
	s1.UpdateMessageFeedback(s1.State().Messages[1].ID, message.Upvote)
	want := s1.State()
	s1.Save(t.Context())
	s1.Close()

	s2 := newTestStore(t, adapter)
	s2.Load(t.Context())

	got := s2.State()
	require.Equal(t, theme.Dark, got.Theme)
	require.Len(t, got.Messages, 2)
	for i, m := range got.Messages {
		require.Equal(t, want.Messages[i].ID, m.ID)
		require.Equal(t, want.Messages[i].Content, m.Content)
		require.Equal(t, want.Messages[i].Sender, m.Sender)
		require.Equal(t, want.Messages[i].Feedback, m.Feedback)
		// 时间戳按时刻比较，序列化前后时区表示可以不同
		require.True(t, want.Messages[i].Timestamp.Equal(m.Timestamp))
	}
}

func TestPersistOnlySnapshotFields(t *testing.T) {
	t.Parallel()
	adapter := storage.NewMemory()
	s := newTestStore(t, adapter)

	s.ToggleChat()
	s.ToggleFullscreen()
	require.NoError(t, s.AddFile("doc.pdf", 1024, "application/pdf", ""))
	s.AddMessage("你好", message.User, nil)
	s.Save(t.Context())

	raw, ok := adapter.Get(t.Context(), StorageKey)
	require.True(t, ok)

	var persisted map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	require.Contains(t, persisted, "messages")
	require.Contains(t, persisted, "theme")
	require.NotContains(t, persisted, "isOpen")
	require.NotContains(t, persisted, "pendingAttachments")
}

func TestLoadCorruptSnapshot(t *testing.T) {
	t.Parallel()
	adapter := storage.NewMemory()
	adapter.Set(t.Context(), StorageKey, "{这不是合法的JSON")

	s := newTestStore(t, adapter)
	s.Load(t.Context())

	st := s.State()
	require.Empty(t, st.Messages)
	require.Equal(t, theme.Light, st.Theme)

	// 损坏的记录应当被删除，下一次启动不再反复报错
	_, ok := adapter.Get(t.Context(), StorageKey)
	require.False(t, ok)
}

func TestLoadMissingSnapshotKeepsDefaults(t *testing.T) {
	t.Parallel()
	s := newTestStore(t, storage.NewMemory())
	s.Load(t.Context())

	st := s.State()
	require.Empty(t, st.Messages)
	require.Equal(t, theme.Light, st.Theme)
}

func TestAutoSaveDebounce(t *testing.T) {
	t.Parallel()
	adapter := storage.NewMemory()
	s := newTestStore(t, adapter)

	s.AddMessage("第一条", message.User, nil)
	s.AddMessage("第二条", message.User, nil)

	require.Eventually(t, func() bool {
		raw, ok := adapter.Get(t.Context(), StorageKey)
		if !ok {
			return false
		}
		var snap snapshot
		return json.Unmarshal([]byte(raw), &snap) == nil && len(snap.Messages) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAutoSavePersistsFirstChange(t *testing.T) {
	t.Parallel()
	adapter := storage.NewMemory()
	s := newTestStore(t, adapter)

	// 构造后紧接着的第一笔持久化变更必须落盘，
	// 哪怕之后再没有任何事件发生
	s.AddMessage("构造后第一条", message.User, nil)

	require.Eventually(t, func() bool {
		raw, ok := adapter.Get(t.Context(), StorageKey)
		if !ok {
			return false
		}
		var snap snapshot
		return json.Unmarshal([]byte(raw), &snap) == nil && len(snap.Messages) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCloseFlushesDebouncedChange(t *testing.T) {
	t.Parallel()
	adapter := storage.NewMemory()
	s := New(t.Context(), DefaultOptions(), adapter)

	// 不等防抖窗口到期就关闭，落盘由关闭路径负责
	s.AddMessage("退出前最后一条", message.User, nil)
	s.Close()

	raw, ok := adapter.Get(t.Context(), StorageKey)
	require.True(t, ok)
	var snap snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))
	require.Len(t, snap.Messages, 1)
	require.Equal(t, "退出前最后一条", snap.Messages[0].Content)
}

func TestSendUserMessageCapturesAttachments(t *testing.T) {
	t.Parallel()
	s := newTestStore(t, storage.NewMemory())

	require.NoError(t, s.AddFile("doc.pdf", 2048, "application/pdf", "/tmp/doc.pdf"))
	s.SendUserMessage("请看附件")

	st := s.State()
	require.Len(t, st.Messages, 1)
	require.Len(t, st.Messages[0].Files, 1)
	require.Equal(t, "doc.pdf", st.Messages[0].Files[0].Name)
	require.Empty(t, st.PendingAttachments)
	require.True(t, st.IsLoading)
}

func TestSendUserMessageCaptureAndClearIsOneTransition(t *testing.T) {
	t.Parallel()
	s := newTestStore(t, storage.NewMemory())

	require.NoError(t, s.AddFile("doc.pdf", 2048, "application/pdf", "/tmp/doc.pdf"))

	events := s.Subscribe(t.Context())
	s.SendUserMessage("请看附件")

	// 捕获附件与清空待发送列表发生在同一次状态转换中：
	// 第一条事件的快照里两者必须同时成立
	select {
	case e := <-events:
		require.True(t, e.Payload.Durable)
		require.Len(t, e.Payload.State.Messages, 1)
		require.Len(t, e.Payload.State.Messages[0].Files, 1)
		require.Empty(t, e.Payload.State.PendingAttachments)
	case <-time.After(time.Second):
		t.Fatal("未收到状态变更事件")
	}
}

func TestSendUserMessageSchedulesBotReply(t *testing.T) {
	t.Parallel()
	s := newTestStore(t, storage.NewMemory())

	s.SendUserMessage("你好")

	require.Eventually(t, func() bool {
		st := s.State()
		return len(st.Messages) == 2 && !st.IsLoading
	}, 4*time.Second, 20*time.Millisecond)
	require.Equal(t, message.Bot, s.State().Messages[1].Sender)
	require.NotEmpty(t, s.State().Messages[1].Content)
}

func TestCloseCancelsPendingReply(t *testing.T) {
	t.Parallel()
	s := New(t.Context(), DefaultOptions(), storage.NewMemory())

	s.SendUserMessage("你好")
	s.Close()

	require.Len(t, s.State().Messages, 1)
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	t.Parallel()
	s := newTestStore(t, storage.NewMemory())

	events := s.Subscribe(t.Context())
	s.AddMessage("你好", message.User, nil)

	select {
	case e := <-events:
		require.Equal(t, pubsub.UpdatedEvent, e.Type)
		require.True(t, e.Payload.Durable)
		require.Len(t, e.Payload.State.Messages, 1)
	case <-time.After(time.Second):
		t.Fatal("未收到状态变更事件")
	}

	s.ToggleChat()
	select {
	case e := <-events:
		require.False(t, e.Payload.Durable)
		require.True(t, e.Payload.State.IsOpen)
	case <-time.After(time.Second):
		t.Fatal("未收到状态变更事件")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	t.Parallel()
	s := newTestStore(t, storage.NewMemory())

	s.AddMessage("原始内容", message.User, nil)
	snap := s.State()
	snap.Messages[0].Content = "被改写"

	require.Equal(t, "原始内容", s.State().Messages[0].Content)
}
