package widget

import (
	"charm.land/bubbles/v2/key"

	"github.com/purpose168/floatchat-cn/internal/ui/attachments"
)

// KeyMap 挂件的键盘快捷键映射
type KeyMap struct {
	ToggleChat  key.Binding // 展开/收起聊天窗口
	Fullscreen  key.Binding // 切换全屏
	Send        key.Binding // 发送消息
	Newline     key.Binding // 输入换行
	Attach      key.Binding // 打开文件选择器
	DeleteMode  key.Binding // 进入附件删除模式
	ToggleTheme key.Binding // 切换主题
	Feedback    key.Binding // 打开反馈表单
	VoteUp      key.Binding // 赞同最近的机器人回复
	VoteDown    key.Binding // 反对最近的机器人回复
	ClearChat   key.Binding // 清空会话
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Escape      key.Binding
	Quit        key.Binding
}

// DefaultKeyMap 返回默认按键绑定
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ToggleChat: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "打开/收起"),
		),
		Fullscreen: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "全屏"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "发送"),
		),
		Newline: key.NewBinding(
			key.WithKeys("ctrl+j"),
			key.WithHelp("ctrl+j", "换行"),
		),
		Attach: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "附件"),
		),
		DeleteMode: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "删除附件"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "主题"),
		),
		Feedback: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "反馈"),
		),
		VoteUp: key.NewBinding(
			key.WithKeys("ctrl+up"),
			key.WithHelp("ctrl+↑", "赞同回复"),
		),
		VoteDown: key.NewBinding(
			key.WithKeys("ctrl+down"),
			key.WithHelp("ctrl+↓", "反对回复"),
		),
		ClearChat: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "清空会话"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "向上滚动"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "向下滚动"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "关闭"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "退出"),
		),
	}
}

// attachmentsKeymap 附件条组件使用的按键子集
func (k KeyMap) attachmentsKeymap() attachments.Keymap {
	return attachments.Keymap{
		DeleteMode: k.DeleteMode,
		DeleteAll:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "删除全部")),
		Escape:     k.Escape,
	}
}
