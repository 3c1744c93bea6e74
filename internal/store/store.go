// Package store 实现聊天挂件的中央状态容器
// 它是整个进程中唯一可以改变 [State] 的组件：所有视图组件通过
// 订阅接收状态快照，通过具名操作发起变更；对 messages 或 theme
// 的变更会经由防抖的写通道自动持久化
package store

import (
	"context"
	"sync"

	"github.com/purpose168/floatchat-cn/internal/message"
	"github.com/purpose168/floatchat-cn/internal/pubsub"
	"github.com/purpose168/floatchat-cn/internal/storage"
	"github.com/purpose168/floatchat-cn/internal/theme"
	"github.com/purpose168/floatchat-cn/internal/validation"
)

// Position 悬浮气泡在宿主界面中的停靠位置
type Position string

const (
	BottomRight Position = "bottom-right" // 右下角
	BottomLeft  Position = "bottom-left"  // 左下角
)

// Options 挂件构造时接受的配置面
// 注意主题不在其中：主题永远从宿主环境实时推导，不是静态配置
type Options struct {
	BotName     string   // 机器人显示名称
	Position    Position // 气泡停靠位置
	AllowUpload bool     // 是否允许附件上传
}

// DefaultOptions 返回默认配置
func DefaultOptions() Options {
	return Options{
		BotName:     "Assistant",
		Position:    BottomRight,
		AllowUpload: true,
	}
}

// State 挂件的全部状态
// IsOpen 与 IsFullscreen 是会话瞬态，永不持久化；
// Messages 与 Theme 构成持久化快照
type State struct {
	IsOpen               bool                   // 聊天窗口是否展开
	IsFullscreen         bool                   // 是否全屏
	Theme                theme.Theme            // 当前主题
	Messages             []message.Message      // 会话消息，插入顺序即会话顺序
	PendingAttachments   []message.AttachedFile // 待发送附件，最多3个
	IsLoading            bool                   // 机器人是否正在"输入"
	FeedbackModalVisible bool                   // 反馈表单是否可见
}

// Clone 返回状态的深拷贝
// 在发布到订阅者之前克隆，保证订阅方看到的快照不会被后续变更改写
func (s State) Clone() State {
	clone := s
	clone.Messages = make([]message.Message, len(s.Messages))
	for i, msg := range s.Messages {
		clone.Messages[i] = msg.Clone()
	}
	clone.PendingAttachments = make([]message.AttachedFile, len(s.PendingAttachments))
	copy(clone.PendingAttachments, s.PendingAttachments)
	return clone
}

// Change 状态变更事件的载荷
type Change struct {
	State   State // 变更后的状态快照
	Durable bool  // 本次变更是否涉及持久化字段（messages/theme）
}

// Store 中央状态容器
// 通过构造函数注入依赖，不使用任何包级可变状态，因此多个挂件
// 实例可以共存，每个实例也可以独立测试
type Store struct {
	*pubsub.Broker[Change]

	opts    Options
	storage storage.Adapter

	mu    sync.Mutex
	state State

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	responder *responder
}

// New 创建一个状态容器并启动它的自动持久化循环
// 传入的上下文界定容器的生命周期：上下文取消等价于调用 [Store.Close]
func New(ctx context.Context, opts Options, adapter storage.Adapter) *Store {
	if opts.BotName == "" {
		opts.BotName = DefaultOptions().BotName
	}
	if opts.Position == "" {
		opts.Position = DefaultOptions().Position
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Store{
		Broker:  pubsub.NewBroker[Change](),
		opts:    opts,
		storage: adapter,
		state: State{
			Theme:    theme.Light,
			Messages: []message.Message{},
		},
		ctx:    ctx,
		cancel: cancel,
	}
	s.responder = newResponder(s)

	// 订阅必须在 New 返回前建立，否则紧随构造发生的持久化变更
	// 会在没有任何订阅者时发布，永远不会触发落盘
	events := s.Subscribe(ctx)
	s.wg.Go(func() {
		s.autoSave(ctx, events)
	})

	return s
}

// Options 返回构造时的配置
func (s *Store) Options() Options {
	return s.opts
}

// State 返回当前状态的快照
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Close 关闭状态容器
// 取消未触发的机器人回复定时器，停止自动持久化循环并落盘最后的
// 变更，然后关闭事件代理；可以安全地重复调用
func (s *Store) Close() {
	s.responder.cancel()
	s.cancel()
	s.wg.Wait()
	s.Shutdown()
}

// apply 以原子方式用转换函数替换状态并广播新的快照
func (s *Store) apply(durable bool, fn func(State) State) {
	s.mu.Lock()
	s.state = fn(s.state)
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.Publish(pubsub.UpdatedEvent, Change{State: snapshot, Durable: durable})
}

// ToggleChat 展开或收起聊天窗口
func (s *Store) ToggleChat() {
	s.apply(false, toggleChat)
}

// ToggleFullscreen 切换全屏，与窗口展开状态相互独立
func (s *Store) ToggleFullscreen() {
	s.apply(false, toggleFullscreen)
}

// SetTheme 设置主题
// 主题属于持久化快照，变更会触发落盘
func (s *Store) SetTheme(t theme.Theme) {
	s.apply(true, func(st State) State {
		return setTheme(st, t)
	})
}

// ToggleTheme 翻转主题
func (s *Store) ToggleTheme() {
	s.apply(true, func(st State) State {
		return setTheme(st, st.Theme.Toggle())
	})
}

// AddMessage 构造一条消息并追加到会话末尾
// 消息获得全新的唯一标识和当前时间戳；内容不做校验——允许空内容
// 带附件的消息，约束由调用方负责
func (s *Store) AddMessage(content string, sender message.Sender, files []message.AttachedFile) {
	msg := message.New(content, sender, files)
	s.apply(true, func(st State) State {
		return addMessage(st, msg)
	})
}

// SendUserMessage 发送一条用户消息
// 待发送附件列表在同一次状态转换里被捕获进该消息并清空，两者之间
// 不可能插入其他变更，然后调度一次模拟的机器人回复
func (s *Store) SendUserMessage(content string) {
	s.apply(true, func(st State) State {
		st = addMessage(st, message.New(content, message.User, st.PendingAttachments))
		return clearFiles(st)
	})
	s.responder.schedule()
}

// UpdateMessageFeedback 设置指定消息的投票反馈
// 按标识查找消息，其余消息不受影响；标识不存在时静默忽略，
// 绝不向调用方抛出错误
func (s *Store) UpdateMessageFeedback(messageID string, fb message.Feedback) {
	s.mu.Lock()
	next, changed := updateFeedback(s.state, messageID, fb)
	if !changed {
		s.mu.Unlock()
		return
	}
	s.state = next
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.Publish(pubsub.UpdatedEvent, Change{State: snapshot, Durable: true})
}

// AddFile 校验并添加一个待发送附件
// 校验失败或已达上限时状态保持不变，失败原因以带类型的错误返回，
// 由调用方负责向用户呈现；任何情况下待发送附件数都不会超过上限
func (s *Store) AddFile(name string, size int64, mimeType, path string) error {
	if err := validation.ValidateFile(name, size, mimeType); err != nil {
		return err
	}

	s.mu.Lock()
	if len(s.state.PendingAttachments) >= validation.MaxPendingFiles {
		s.mu.Unlock()
		return &validation.FileError{Kind: validation.FileLimitExceeded, Name: name}
	}
	s.state = addFile(s.state, message.NewAttachedFile(name, size, mimeType, path))
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.Publish(pubsub.UpdatedEvent, Change{State: snapshot, Durable: false})
	return nil
}

// RemoveFile 按标识移除一个待发送附件，标识不存在时静默忽略
func (s *Store) RemoveFile(fileID string) {
	s.mu.Lock()
	next, changed := removeFile(s.state, fileID)
	if !changed {
		s.mu.Unlock()
		return
	}
	s.state = next
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.Publish(pubsub.UpdatedEvent, Change{State: snapshot, Durable: false})
}

// ClearFiles 清空待发送附件列表，幂等
func (s *Store) ClearFiles() {
	s.apply(false, clearFiles)
}

// SetLoading 设置"机器人正在输入"指示
func (s *Store) SetLoading(loading bool) {
	s.apply(false, func(st State) State {
		return setLoading(st, loading)
	})
}

// OpenFeedbackModal 显示反馈表单
func (s *Store) OpenFeedbackModal() {
	s.apply(false, func(st State) State {
		return setFeedbackModal(st, true)
	})
}

// HideFeedbackModal 隐藏反馈表单
func (s *Store) HideFeedbackModal() {
	s.apply(false, func(st State) State {
		return setFeedbackModal(st, false)
	})
}

// ClearChat 一次性清空会话消息与待发送附件
// 主题、窗口展开与全屏状态不受影响
func (s *Store) ClearChat() {
	s.apply(true, clearChat)
}
