package message

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestNew_UniqueIDs 测试连续创建的消息拥有互不相同的标识
func TestNew_UniqueIDs(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for range 100 {
		msg := New("你好", User, nil)
		_, dup := seen[msg.ID]
		require.False(t, dup, "消息标识重复: %s", msg.ID)
		seen[msg.ID] = struct{}{}
	}
}

// TestMessage_TimestampRoundTrip 测试时间戳经过 JSON 序列化后按时刻比较保持一致
func TestMessage_TimestampRoundTrip(t *testing.T) {
	t.Parallel()

	msg := New("hi", User, nil)

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Equal(t, msg.Content, decoded.Content)
	require.Equal(t, msg.Sender, decoded.Sender)
	// 按时刻比较而非字符串比较
	require.True(t, msg.Timestamp.Equal(decoded.Timestamp),
		"时间戳往返后不一致: %s != %s", msg.Timestamp, decoded.Timestamp)
}

// TestAttachedFile_PathNeverSerialized 测试附件的原始文件句柄不会进入持久化快照
func TestAttachedFile_PathNeverSerialized(t *testing.T) {
	t.Parallel()

	file := NewAttachedFile("报告.pdf", 2048, "application/pdf", "/tmp/报告.pdf")
	msg := New("请看附件", User, []AttachedFile{file})

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NotContains(t, string(data), "/tmp/")

	// 元数据应当保留
	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Files, 1)
	require.Equal(t, "报告.pdf", decoded.Files[0].Name)
	require.Equal(t, int64(2048), decoded.Files[0].Size)
	require.Empty(t, decoded.Files[0].Path)
}

// TestMessage_Clone 测试克隆后的附件切片与原消息相互独立
func TestMessage_Clone(t *testing.T) {
	t.Parallel()

	file := NewAttachedFile("a.txt", 10, "text/plain", "/tmp/a.txt")
	msg := New("带附件", User, []AttachedFile{file})

	clone := msg.Clone()
	clone.Files[0].Name = "改名.txt"

	require.Equal(t, "a.txt", msg.Files[0].Name)
}

// TestMessage_FeedbackOmittedWhenUnset 测试未投票时反馈字段不出现在序列化结果中
func TestMessage_FeedbackOmittedWhenUnset(t *testing.T) {
	t.Parallel()

	msg := New("hi", Bot, nil)
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NotContains(t, string(data), "feedback")

	msg.Feedback = Upvote
	data, err = json.Marshal(msg)
	require.NoError(t, err)
	require.Contains(t, string(data), `"feedback":"upvote"`)
}

// TestNew_TimestampIsRecent 测试新消息使用当前时间
func TestNew_TimestampIsRecent(t *testing.T) {
	t.Parallel()

	before := time.Now()
	msg := New("hi", User, nil)
	after := time.Now()

	require.False(t, msg.Timestamp.Before(before))
	require.False(t, msg.Timestamp.After(after))
}
