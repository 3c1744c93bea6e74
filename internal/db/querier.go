// 由 sqlc 自动生成的代码。请勿编辑。
// 版本信息:
//   sqlc v1.30.0

package db

import (
	"context"
)

// Querier 定义了数据库查询操作的接口
type Querier interface {
	// DeleteKvValue 删除指定键的记录
	DeleteKvValue(ctx context.Context, key string) error
	// GetKvValue 获取指定键的值
	GetKvValue(ctx context.Context, key string) (string, error)
	// UpsertKvValue 插入或更新指定键的值
	UpsertKvValue(ctx context.Context, arg UpsertKvValueParams) error
}

var _ Querier = (*Queries)(nil)
