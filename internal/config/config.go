// Package config 加载并合并 floatchat 的配置
// 配置按优先级从低到高依次合并：全局配置、全局数据目录配置、
// 从工作目录向上找到的项目级配置
package config

import (
	"github.com/purpose168/floatchat-cn/internal/store"
	"github.com/purpose168/floatchat-cn/internal/validation"
)

const appName = "floatchat"

// defaultDataDirectory 项目级数据目录名
const defaultDataDirectory = ".floatchat"

// Config floatchat 的配置结构
type Config struct {
	// Schema JSON schema 路径，仅用于编辑器补全
	Schema string `json:"$schema,omitempty"`

	// Widget 挂件行为配置
	Widget Widget `json:"widget,omitempty"`

	// Options 应用级选项
	Options *Options `json:"options,omitempty"`

	// 配置加载时确定的工作目录，不序列化
	workingDir string
}

// Widget 挂件行为配置
// 主题不在其中：主题从宿主环境实时推导并跟随宿主变化
type Widget struct {
	// BotName 机器人在会话中的显示名称
	BotName string `json:"bot_name,omitempty" jsonschema:"description=Display name of the bot in the conversation,default=Assistant"`

	// Position 悬浮气泡的停靠位置
	Position string `json:"position,omitempty" jsonschema:"description=Corner the floating bubble docks to,enum=bottom-right,enum=bottom-left,default=bottom-right"`

	// AllowUpload 是否允许附件上传，nil 表示允许
	AllowUpload *bool `json:"allow_upload,omitempty" jsonschema:"description=Whether file attachments can be added to messages,default=true"`
}

// Options 应用级选项
type Options struct {
	// DataDirectory 数据目录，存放数据库与日志
	DataDirectory string `json:"data_directory,omitempty" jsonschema:"description=Directory for the message database and logs,example=.floatchat"`

	// Debug 是否启用调试日志
	Debug bool `json:"debug,omitempty" jsonschema:"description=Enable debug logging,default=false"`

	// DisableMetrics 是否禁用匿名遥测
	DisableMetrics bool `json:"disable_metrics,omitempty" jsonschema:"description=Disable anonymous error reporting and usage metrics,default=false"`
}

// WorkingDir 返回配置加载时的工作目录
func (c *Config) WorkingDir() string {
	return c.workingDir
}

// StoreOptions 把挂件配置换算成状态容器的选项
func (c *Config) StoreOptions() store.Options {
	opts := store.DefaultOptions()
	if c.Widget.BotName != "" {
		opts.BotName = c.Widget.BotName
	}
	if c.Widget.Position == string(store.BottomLeft) {
		opts.Position = store.BottomLeft
	}
	if c.Widget.AllowUpload != nil {
		opts.AllowUpload = *c.Widget.AllowUpload
	}
	return opts
}

// MaxAttachments 单条消息允许的最大附件数
func (c *Config) MaxAttachments() int {
	if !c.StoreOptions().AllowUpload {
		return 0
	}
	return validation.MaxPendingFiles
}
