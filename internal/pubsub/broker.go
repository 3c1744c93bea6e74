package pubsub

import (
	"context"
	"sync"
)

// bufferSize 订阅者通道的默认缓冲区大小
const bufferSize = 64

// Broker 事件代理，实现发布-订阅模式
// T 是事件载荷的类型
type Broker[T any] struct {
	subs map[chan Event[T]]struct{} // 订阅者通道集合
	mu   sync.RWMutex               // 保护并发访问
	done chan struct{}              // 关闭信号通道
}

// NewBroker 创建新的事件代理
func NewBroker[T any]() *Broker[T] {
	return &Broker[T]{
		subs: make(map[chan Event[T]]struct{}),
		done: make(chan struct{}),
	}
}

// Shutdown 关闭事件代理
// 关闭所有订阅者通道并清理资源，可以安全地重复调用
func (b *Broker[T]) Shutdown() {
	select {
	case <-b.done: // 已经关闭
		return
	default:
		close(b.done)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

// Subscribe 订阅事件
// 返回一个事件通道，订阅者通过此通道接收事件
// 当上下文取消时，自动取消订阅并关闭通道
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	// 代理已关闭时返回一个已关闭的通道
	select {
	case <-b.done:
		ch := make(chan Event[T])
		close(ch)
		return ch
	default:
	}

	sub := make(chan Event[T], bufferSize)
	b.subs[sub] = struct{}{}

	// 监听上下文取消，移除订阅者
	go func() {
		<-ctx.Done()

		b.mu.Lock()
		defer b.mu.Unlock()

		select {
		case <-b.done:
			// 代理已关闭，通道已在 Shutdown 中处理
			return
		default:
		}

		delete(b.subs, sub)
		close(sub)
	}()

	return sub
}

// SubscriberCount 返回当前订阅者数量
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish 发布事件
// 将事件发送给所有订阅者
// 如果订阅者通道已满则跳过该订阅者，避免阻塞发布方
func (b *Broker[T]) Publish(t EventType, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	select {
	case <-b.done:
		return
	default:
	}

	event := Event[T]{Type: t, Payload: payload}

	for sub := range b.subs {
		select {
		case sub <- event:
		default:
			// 通道已满，订阅者处理较慢 - 跳过此事件
		}
	}
}
