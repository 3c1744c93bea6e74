// Package storage 提供对持久化键值存储的安全封装
// 所有读写都经过这一边界：存储不可用（磁盘满、只读文件系统、损坏的
// 数据库）时降级为"无持久化"，而不是让错误传播到 UI 层
package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/purpose168/floatchat-cn/internal/csync"
	"github.com/purpose168/floatchat-cn/internal/db"
	"github.com/purpose168/floatchat-cn/internal/event"
)

// Adapter 键值存储适配器接口
// 永不返回错误：失败在内部被捕获、记录并上报到事件汇聚点，
// 调用方只通过布尔值得知操作是否成功
type Adapter interface {
	// Get 读取指定键的值，第二个返回值表示键是否存在
	Get(ctx context.Context, key string) (string, bool)
	// Set 写入指定键的值，返回是否成功
	Set(ctx context.Context, key, value string) bool
	// Remove 删除指定键，返回是否成功（键不存在视为成功）
	Remove(ctx context.Context, key string) bool
}

// NewSqlite 创建一个基于 SQLite 键值表的适配器
func NewSqlite(q db.Querier) Adapter {
	return &sqliteAdapter{q: q}
}

// sqliteAdapter 基于 SQLite 的适配器实现
type sqliteAdapter struct {
	q db.Querier
}

func (s *sqliteAdapter) Get(ctx context.Context, key string) (string, bool) {
	value, err := s.q.GetKvValue(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false
		}
		reportFailure("读取持久化记录失败", key, err)
		return "", false
	}
	return value, true
}

func (s *sqliteAdapter) Set(ctx context.Context, key, value string) bool {
	err := s.q.UpsertKvValue(ctx, db.UpsertKvValueParams{
		Key:   key,
		Value: value,
	})
	if err != nil {
		reportFailure("写入持久化记录失败", key, err)
		return false
	}
	return true
}

func (s *sqliteAdapter) Remove(ctx context.Context, key string) bool {
	if err := s.q.DeleteKvValue(ctx, key); err != nil {
		reportFailure("删除持久化记录失败", key, err)
		return false
	}
	return true
}

// reportFailure 将存储失败分类后记录日志并上报到集中式错误汇聚点
func reportFailure(msg, key string, err error) {
	serr := classify(err)
	slog.Error(msg, "key", key, "kind", serr.Kind, "error", err)
	event.Error(serr)
}

// NewMemory 创建一个纯内存的适配器
// 用于测试，以及持久化存储不可用时的降级路径：会话内行为完全一致，
// 只是状态不会在重启后保留
func NewMemory() Adapter {
	return &memoryAdapter{m: csync.NewMap[string, string]()}
}

// memoryAdapter 基于内存映射的适配器实现
type memoryAdapter struct {
	m *csync.Map[string, string]
}

func (m *memoryAdapter) Get(_ context.Context, key string) (string, bool) {
	return m.m.Get(key)
}

func (m *memoryAdapter) Set(_ context.Context, key, value string) bool {
	m.m.Set(key, value)
	return true
}

func (m *memoryAdapter) Remove(_ context.Context, key string) bool {
	m.m.Del(key)
	return true
}

// classify 将底层错误归入 [Error] 分类
func classify(err error) *Error {
	if strings.Contains(err.Error(), "database or disk is full") {
		return &Error{Kind: QuotaExceeded, Err: err}
	}
	return &Error{Kind: Unavailable, Err: err}
}
