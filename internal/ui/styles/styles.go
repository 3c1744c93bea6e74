// Package styles 定义挂件的视觉样式
// 样式按主题成套生成：亮色与暗色各一套，主题变化时整套替换
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"

	"github.com/purpose168/floatchat-cn/internal/theme"
)

// 图标常量定义
const (
	BubbleIcon     string = "◖✉◗" // 收起状态的悬浮气泡
	AttachmentIcon string = "≡"   // 附件图标
	UpvoteIcon     string = "▲"   // 赞同图标
	DownvoteIcon   string = "▼"   // 反对图标
	LoadingIcon    string = "⋯"   // 机器人输入中
	CloseIcon      string = "×"   // 关闭图标
	SendIcon       string = "→"   // 发送图标

	BorderThin string = "│"
)

// Styles 挂件的全套样式
type Styles struct {
	Theme theme.Theme

	// Background 终端背景色
	Background color.Color

	// 可复用文本样式
	Base   lipgloss.Style // 基础文本样式
	Muted  lipgloss.Style // 弱化文本样式
	Subtle lipgloss.Style // 细微文本样式
	Error  lipgloss.Style // 错误文本样式

	// 悬浮气泡
	Bubble lipgloss.Style

	// 聊天窗口
	Window      lipgloss.Style // 窗口边框
	Header      lipgloss.Style // 头部栏
	HeaderTitle lipgloss.Style // 头部标题
	StatusLine  lipgloss.Style // 底部状态行

	// 消息
	UserLabel lipgloss.Style // 用户消息发送者标签
	BotLabel  lipgloss.Style // 机器人消息发送者标签
	Timestamp lipgloss.Style // 时间戳
	Loading   lipgloss.Style // "正在输入"指示

	// 反馈投票
	VoteActive   lipgloss.Style
	VoteInactive lipgloss.Style

	// 附件条
	AttachmentChip     lipgloss.Style
	AttachmentDeleting lipgloss.Style

	// 反馈表单
	FormTitle lipgloss.Style
	FormLabel lipgloss.Style
}

// New 返回给定主题的全套样式
func New(t theme.Theme) *Styles {
	s := &Styles{Theme: t}

	isDark := t == theme.Dark
	pick := lipgloss.LightDark(isDark)

	fgBase := pick(charmtone.Pepper, charmtone.Salt)
	fgMuted := pick(charmtone.Squid, charmtone.Smoke)
	fgSubtle := pick(charmtone.Smoke, charmtone.Squid)
	accent := charmtone.Charple
	secondary := charmtone.Dolly

	s.Background = pick(charmtone.Butter, charmtone.Pepper)

	s.Base = lipgloss.NewStyle().Foreground(fgBase)
	s.Muted = s.Base.Foreground(fgMuted)
	s.Subtle = s.Base.Foreground(fgSubtle)
	s.Error = s.Base.Foreground(charmtone.Sriracha)

	s.Bubble = lipgloss.NewStyle().
		Foreground(charmtone.Butter).
		Background(accent).
		Padding(0, 1).
		Bold(true)

	s.Window = s.Base.
		Border(lipgloss.RoundedBorder()).
		BorderForeground(pick(charmtone.Ash, charmtone.Charcoal))
	s.Header = lipgloss.NewStyle().Foreground(charmtone.Butter).Background(accent).Padding(0, 1)
	s.HeaderTitle = s.Header.Bold(true)
	s.StatusLine = s.Subtle

	s.UserLabel = s.Base.Foreground(accent).Bold(true)
	s.BotLabel = s.Base.Foreground(pick(charmtone.Guac, secondary)).Bold(true)
	s.Timestamp = s.Subtle
	s.Loading = s.Muted.Italic(true)

	s.VoteActive = s.Base.Foreground(charmtone.Zest).Bold(true)
	s.VoteInactive = s.Subtle

	s.AttachmentChip = s.Muted.
		Background(pick(charmtone.Ash, charmtone.Charcoal)).
		Padding(0, 1)
	s.AttachmentDeleting = s.AttachmentChip.Foreground(charmtone.Sriracha).Bold(true)

	s.FormTitle = s.Base.Foreground(accent).Bold(true)
	s.FormLabel = s.Muted

	return s
}

// MarkdownStyle 返回与当前主题匹配的 glamour 标准样式名
func (s *Styles) MarkdownStyle() string {
	if s.Theme == theme.Dark {
		return "dark"
	}
	return "light"
}
