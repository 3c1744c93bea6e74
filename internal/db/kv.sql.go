// 由 sqlc 自动生成的代码。请勿编辑。
// 版本信息:
//   sqlc v1.30.0
// 来源: kv.sql

package db

import (
	"context"
)

const deleteKvValue = `-- name: DeleteKvValue :exec
DELETE FROM kv_store
WHERE key = ?
`

// DeleteKvValue 删除指定键的记录
func (q *Queries) DeleteKvValue(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, deleteKvValue, key)
	return err
}

const getKvValue = `-- name: GetKvValue :one
SELECT value
FROM kv_store
WHERE key = ?
`

// GetKvValue 获取指定键的值
func (q *Queries) GetKvValue(ctx context.Context, key string) (string, error) {
	row := q.db.QueryRowContext(ctx, getKvValue, key)
	var value string
	err := row.Scan(&value)
	return value, err
}

const upsertKvValue = `-- name: UpsertKvValue :exec
INSERT INTO kv_store (key, value, created_at, updated_at)
VALUES (?, ?, strftime('%s', 'now'), strftime('%s', 'now'))
ON CONFLICT (key) DO UPDATE SET
    value = excluded.value,
    updated_at = strftime('%s', 'now')
`

// UpsertKvValueParams 插入或更新操作的参数
type UpsertKvValueParams struct {
	Key   string // 键
	Value string // 值
}

// UpsertKvValue 插入或更新指定键的值
func (q *Queries) UpsertKvValue(ctx context.Context, arg UpsertKvValueParams) error {
	_, err := q.db.ExecContext(ctx, upsertKvValue, arg.Key, arg.Value)
	return err
}
