package store

import (
	"slices"

	"github.com/purpose168/floatchat-cn/internal/message"
	"github.com/purpose168/floatchat-cn/internal/theme"
)

// 纯状态转换函数
// 每个函数接收状态值并返回新状态，绝不原地修改切片，这样已经
// 发布给订阅者的快照不会被后续转换改写

func toggleChat(s State) State {
	s.IsOpen = !s.IsOpen
	return s
}

func toggleFullscreen(s State) State {
	s.IsFullscreen = !s.IsFullscreen
	return s
}

func setTheme(s State, t theme.Theme) State {
	s.Theme = t
	return s
}

func addMessage(s State, msg message.Message) State {
	s.Messages = append(slices.Clone(s.Messages), msg)
	return s
}

// updateFeedback 返回设置了反馈的新状态，消息不存在时 changed 为 false
func updateFeedback(s State, messageID string, fb message.Feedback) (_ State, changed bool) {
	idx := slices.IndexFunc(s.Messages, func(m message.Message) bool {
		return m.ID == messageID
	})
	if idx < 0 {
		return s, false
	}
	msgs := slices.Clone(s.Messages)
	msgs[idx].Feedback = fb
	s.Messages = msgs
	return s, true
}

func addFile(s State, f message.AttachedFile) State {
	s.PendingAttachments = append(slices.Clone(s.PendingAttachments), f)
	return s
}

func removeFile(s State, fileID string) (_ State, changed bool) {
	idx := slices.IndexFunc(s.PendingAttachments, func(f message.AttachedFile) bool {
		return f.ID == fileID
	})
	if idx < 0 {
		return s, false
	}
	s.PendingAttachments = slices.Delete(slices.Clone(s.PendingAttachments), idx, idx+1)
	return s, true
}

func clearFiles(s State) State {
	s.PendingAttachments = nil
	return s
}

func setLoading(s State, loading bool) State {
	s.IsLoading = loading
	return s
}

func setFeedbackModal(s State, visible bool) State {
	s.FeedbackModalVisible = visible
	return s
}

func clearChat(s State) State {
	s.Messages = []message.Message{}
	s.PendingAttachments = nil
	return s
}
