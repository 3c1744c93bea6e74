// Package util 提供 UI 消息处理的工具函数。
package util

import (
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"
)

// CmdHandler 创建一个返回指定消息的命令
func CmdHandler(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

// ReportError 报告错误并创建错误消息命令
func ReportError(err error) tea.Cmd {
	slog.Error("报告错误", "error", err)
	return CmdHandler(NewErrorMsg(err))
}

// InfoType 定义信息消息的类型
type InfoType int

const (
	InfoTypeInfo  InfoType = iota // 普通信息
	InfoTypeWarn                  // 警告信息
	InfoTypeError                 // 错误信息
)

// NewInfoMsg 创建新的普通信息消息
func NewInfoMsg(info string) InfoMsg {
	return InfoMsg{
		Type: InfoTypeInfo,
		Msg:  info,
	}
}

// NewWarnMsg 创建新的警告信息消息
func NewWarnMsg(warn string) InfoMsg {
	return InfoMsg{
		Type: InfoTypeWarn,
		Msg:  warn,
	}
}

// NewErrorMsg 创建新的错误信息消息
func NewErrorMsg(err error) InfoMsg {
	return InfoMsg{
		Type: InfoTypeError,
		Msg:  err.Error(),
	}
}

// ReportInfo 报告信息并创建信息消息命令
func ReportInfo(info string) tea.Cmd {
	return CmdHandler(NewInfoMsg(info))
}

// InfoMsg 定义信息消息结构
type (
	InfoMsg struct {
		Type InfoType      // 消息类型
		Msg  string        // 消息内容
		TTL  time.Duration // 消息存活时间
	}
	ClearStatusMsg struct{} // 清除状态消息
)

// IsEmpty 检查 [InfoMsg] 是否为空
func (m InfoMsg) IsEmpty() bool {
	var zero InfoMsg
	return m == zero
}
