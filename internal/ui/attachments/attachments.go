// Package attachments 提供待发送附件条的用户界面组件
// 该包只负责显示与删除交互，附件的校验与数量上限由状态容器执行
package attachments

import (
	"fmt"
	"math"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/purpose168/floatchat-cn/internal/message"
)

// maxFilename 定义文件名显示的最大字符数
const maxFilename = 15

// Keymap 定义附件组件的键盘快捷键映射
type Keymap struct {
	DeleteMode,
	DeleteAll,
	Escape key.Binding
}

// RemoveMsg 请求状态容器移除指定附件
type RemoveMsg struct {
	FileID string
}

// RemoveAllMsg 请求状态容器清空附件列表
type RemoveAllMsg struct{}

// New 创建一个新的附件条组件
func New(renderer *Renderer, keyMap Keymap) *Attachments {
	return &Attachments{
		keyMap:   keyMap,
		renderer: renderer,
	}
}

// Attachments 待发送附件条
// 列表内容跟随状态容器的快照，组件自身只保留删除模式这一点交互态
type Attachments struct {
	renderer *Renderer
	keyMap   Keymap
	list     []message.AttachedFile
	deleting bool
}

// SetList 用最新快照替换附件列表
func (m *Attachments) SetList(files []message.AttachedFile) {
	m.list = files
	if len(files) == 0 {
		m.deleting = false
	}
}

// Empty 判断附件条是否为空
func (m *Attachments) Empty() bool { return len(m.list) == 0 }

// Update 处理键盘交互
// 返回的命令把删除意图转发给状态容器，第二个返回值表示按键已被消费
func (m *Attachments) Update(msg tea.Msg) (tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil, false
	}
	switch {
	case key.Matches(keyMsg, m.keyMap.DeleteMode):
		// 进入删除模式（仅当列表不为空时）
		if len(m.list) > 0 {
			m.deleting = true
		}
		return nil, true
	case m.deleting && key.Matches(keyMsg, m.keyMap.Escape):
		m.deleting = false
		return nil, true
	case m.deleting && key.Matches(keyMsg, m.keyMap.DeleteAll):
		m.deleting = false
		return func() tea.Msg { return RemoveAllMsg{} }, true
	case m.deleting:
		// 数字键删除单个附件
		r := keyMsg.Code
		if r >= '0' && r <= '9' {
			num := int(r - '0')
			m.deleting = false
			if num < len(m.list) {
				id := m.list[num].ID
				return func() tea.Msg { return RemoveMsg{FileID: id} }, true
			}
		}
		return nil, true
	}
	return nil, false
}

// Render 渲染附件条
func (m *Attachments) Render(width int) string {
	return m.renderer.Render(m.list, m.deleting, width)
}

// NewRenderer 创建一个新的附件渲染器
func NewRenderer(normalStyle, deletingStyle, iconStyle lipgloss.Style, icon string) *Renderer {
	return &Renderer{
		normalStyle:   normalStyle,
		deletingStyle: deletingStyle,
		iconStyle:     iconStyle,
		icon:          icon,
	}
}

// Renderer 负责附件条的样式渲染
type Renderer struct {
	normalStyle, deletingStyle, iconStyle lipgloss.Style
	icon                                  string
}

// Render 渲染附件列表为可显示的字符串
// 每个附件显示为一个小条：图标、截断后的文件名和人类可读的大小；
// 删除模式下图标换成数字索引
func (r *Renderer) Render(files []message.AttachedFile, deleting bool, width int) string {
	var chips []string

	// 计算单个附件项的最大宽度，超出宽度的附件折叠成计数
	maxItemWidth := lipgloss.Width(r.iconStyle.Render(r.icon)+r.normalStyle.Render(strings.Repeat("x", maxFilename))) + 8
	fits := int(math.Floor(float64(width)/float64(maxItemWidth))) - 1

	for i, f := range files {
		filename := f.Name
		if ansi.StringWidth(filename) > maxFilename {
			filename = ansi.Truncate(filename, maxFilename, "…")
		}
		label := fmt.Sprintf("%s %s", filename, humanize.IBytes(uint64(f.Size)))

		if deleting {
			chips = append(
				chips,
				r.deletingStyle.Render(fmt.Sprintf("%d", i)),
				r.normalStyle.Render(label),
			)
		} else {
			chips = append(
				chips,
				r.iconStyle.Render(r.icon),
				r.normalStyle.Render(label),
			)
		}

		if i == fits && len(files) > i {
			chips = append(chips, r.normalStyle.Render(fmt.Sprintf("还有 %d 个…", len(files)-fits)))
			break
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Left, chips...)
}
