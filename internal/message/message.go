// Package message 定义会话中的消息与附件数据模型
package message

import (
	"time"

	"github.com/google/uuid"
)

// Sender 消息发送方
type Sender string

const (
	User Sender = "user" // 用户消息
	Bot  Sender = "bot"  // 机器人消息
)

// Feedback 用户对单条机器人消息的投票反馈
type Feedback string

const (
	FeedbackNone Feedback = ""         // 未投票
	Upvote       Feedback = "upvote"   // 赞
	Downvote     Feedback = "downvote" // 踩
)

// AttachedFile 表示一个已通过校验的附件
// Path 是指向本地文件的原始句柄，仅在当前会话的内存中有意义，
// 序列化时被丢弃：持久化快照只保留附件元数据，不保留文件内容
type AttachedFile struct {
	ID       string `json:"id"`       // 附件唯一标识
	Name     string `json:"name"`     // 文件名
	Size     int64  `json:"size"`     // 文件大小（字节）
	MimeType string `json:"mimeType"` // MIME 类型
	Path     string `json:"-"`        // 本地文件路径，永不持久化
}

// Message 表示会话中的一条消息
// 消息创建后除 Feedback 字段外不可变，顺序即会话顺序
type Message struct {
	ID        string         `json:"id"`                 // 唯一标识
	Content   string         `json:"content"`            // 消息内容
	Sender    Sender         `json:"sender"`             // 发送方
	Timestamp time.Time      `json:"timestamp"`          // 创建时间，序列化为 ISO-8601 字符串
	Feedback  Feedback       `json:"feedback,omitempty"` // 投票反馈
	Files     []AttachedFile `json:"files,omitempty"`    // 随消息发送的附件
}

// New 创建一条新消息，分配全新的唯一标识和当前时间戳
func New(content string, sender Sender, files []AttachedFile) Message {
	return Message{
		ID:        uuid.New().String(),
		Content:   content,
		Sender:    sender,
		Timestamp: time.Now(),
		Files:     cloneFiles(files),
	}
}

// NewAttachedFile 为选中的文件构建附件记录，分配全新的唯一标识
func NewAttachedFile(name string, size int64, mimeType, path string) AttachedFile {
	return AttachedFile{
		ID:       uuid.New().String(),
		Name:     name,
		Size:     size,
		MimeType: mimeType,
		Path:     path,
	}
}

// Clone 返回消息的深拷贝
// 在发布到订阅者之前克隆，以避免与附件切片的并发修改产生竞态条件
func (m Message) Clone() Message {
	clone := m
	clone.Files = cloneFiles(m.Files)
	return clone
}

func cloneFiles(files []AttachedFile) []AttachedFile {
	if files == nil {
		return nil
	}
	out := make([]AttachedFile, len(files))
	copy(out, files)
	return out
}
