// 由 sqlc 自动生成的代码。请勿编辑。
// 版本信息:
//   sqlc v1.30.0

package db

// KvStore 对应 kv_store 表的一行记录
type KvStore struct {
	Key       string // 键
	Value     string // 值
	CreatedAt int64  // 创建时间（Unix 时间戳）
	UpdatedAt int64  // 更新时间（Unix 时间戳）
}
