package storage

import "fmt"

// ErrorKind 存储错误的类别
type ErrorKind string

const (
	Unavailable   ErrorKind = "unavailable"    // 存储不可用
	ParseFailure  ErrorKind = "parse_failure"  // 持久化记录无法解析
	QuotaExceeded ErrorKind = "quota_exceeded" // 存储空间不足
)

// Error 存储边界捕获的错误
// 携带分类信息，便于日志与上报区分失败原因
type Error struct {
	Kind ErrorKind // 错误类别
	Err  error     // 底层错误
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("存储错误: %s", e.Kind)
	}
	return fmt.Sprintf("存储错误(%s): %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewParseFailure 构建一个解析失败错误
// 用于持久化快照解码失败的场景
func NewParseFailure(err error) *Error {
	return &Error{Kind: ParseFailure, Err: err}
}
