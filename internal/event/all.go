// Package event 提供应用程序事件跟踪和记录功能
// 该文件定义了挂件生命周期和会话交互相关的事件记录函数
package event

import (
	"time"
)

// appStartTime 记录应用程序启动时间
var appStartTime time.Time

// AppInitialized 记录应用程序初始化完成事件
// 在应用程序启动完成时调用，用于标记应用开始运行的时间点
func AppInitialized() {
	appStartTime = time.Now()
	send("应用已初始化")
}

// AppExited 记录应用程序退出事件
// 在应用程序退出时调用，计算并记录应用运行时长
func AppExited() {
	duration := time.Since(appStartTime).Truncate(time.Second)
	send(
		"应用已退出",
		"应用运行时长（可读格式）", duration.String(),
		"应用运行时长（秒）", int64(duration.Seconds()),
	)
	Flush()
}

// WidgetOpened 记录聊天窗口展开事件
// 当用户点开悬浮气泡时调用
func WidgetOpened() {
	send("聊天窗口已展开")
}

// WidgetClosed 记录聊天窗口收起事件
func WidgetClosed() {
	send("聊天窗口已收起")
}

// MessageSent 记录用户消息发送事件
// props: 附加的事件属性，以键值对形式传入
func MessageSent(props ...any) {
	send("消息已发送", props...)
}

// FileAttached 记录附件添加事件
// 当一个文件通过校验并进入待发送列表时调用
func FileAttached() {
	send("附件已添加")
}

// FeedbackSubmitted 记录反馈表单提交事件
func FeedbackSubmitted() {
	send("反馈已提交")
}

// ChatCleared 记录会话清空事件
func ChatCleared() {
	send("会话已清空")
}
