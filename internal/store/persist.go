package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/purpose168/floatchat-cn/internal/event"
	"github.com/purpose168/floatchat-cn/internal/message"
	"github.com/purpose168/floatchat-cn/internal/pubsub"
	"github.com/purpose168/floatchat-cn/internal/storage"
	"github.com/purpose168/floatchat-cn/internal/theme"
)

// StorageKey 持久化快照在存储适配器中使用的键
const StorageKey = "floatchat-widget-storage"

// saveDebounce 合并密集变更的防抖窗口
// 连续消息只触发一次落盘，同时保证最后一次变更很快被持久化
const saveDebounce = 100 * time.Millisecond

// snapshot 持久化的状态子集
// 只有消息与主题跨会话存续：窗口展开、全屏、加载指示与待发送
// 附件都是会话瞬态，附件中的原始句柄本来也无法序列化
type snapshot struct {
	Messages []message.Message `json:"messages"`
	Theme    theme.Theme       `json:"theme"`
}

// Load 从存储适配器恢复消息历史与主题
// 记录缺失时保持默认状态；记录损坏时上报解析错误并删除损坏的
// 记录，然后同样以默认状态继续——损坏的历史绝不让挂件无法启动
func (s *Store) Load(ctx context.Context) {
	raw, ok := s.storage.Get(ctx, StorageKey)
	if !ok {
		return
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		perr := storage.NewParseFailure(err)
		slog.Error("持久化快照已损坏，恢复默认状态", "key", StorageKey, "error", perr)
		event.Error(perr)
		s.storage.Remove(ctx, StorageKey)
		return
	}

	s.apply(false, func(st State) State {
		if snap.Messages != nil {
			st.Messages = snap.Messages
		}
		if snap.Theme == theme.Light || snap.Theme == theme.Dark {
			st.Theme = snap.Theme
		}
		return st
	})
}

// Save 将当前的消息历史与主题写入存储适配器
// 写入失败已由适配器在边界上报，这里只留一条警告日志
func (s *Store) Save(ctx context.Context) {
	s.mu.Lock()
	snap := snapshot{
		Messages: slicesCloneMessages(s.state.Messages),
		Theme:    s.state.Theme,
	}
	s.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		slog.Error("序列化持久化快照失败", "error", err)
		return
	}
	if !s.storage.Set(ctx, StorageKey, string(data)) {
		slog.Warn("持久化快照写入失败，继续以内存状态运行", "key", StorageKey)
	}
}

func slicesCloneMessages(msgs []message.Message) []message.Message {
	out := make([]message.Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.Clone()
	}
	return out
}

// autoSave 消费构造时建立的变更订阅，对涉及持久化字段的变更做
// 防抖落盘；生命周期上下文取消时，若仍有未落盘的变更则同步完成
// 最后一次写入
func (s *Store) autoSave(ctx context.Context, events <-chan pubsub.Event[Change]) {
	timer := time.NewTimer(saveDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	dirty := false
	for {
		select {
		case e, ok := <-events:
			if !ok {
				s.flush(ctx, dirty)
				return
			}
			if !e.Payload.Durable {
				continue
			}
			if dirty && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(saveDebounce)
			dirty = true
		case <-timer.C:
			dirty = false
			s.Save(ctx)
		case <-ctx.Done():
			// 取消信号可能与最后的变更事件同时就绪，
			// 先排空已入队的事件再决定是否落盘
			for drained := false; !drained; {
				select {
				case e, ok := <-events:
					if !ok {
						drained = true
					} else if e.Payload.Durable {
						dirty = true
					}
				default:
					drained = true
				}
			}
			s.flush(ctx, dirty)
			return
		}
	}
}

// flush 在自动持久化循环退出前完成最后一次写入
// 使用脱离取消信号的上下文，保证关闭路径上的落盘不被打断
func (s *Store) flush(ctx context.Context, dirty bool) {
	if dirty {
		s.Save(context.WithoutCancel(ctx))
	}
}
