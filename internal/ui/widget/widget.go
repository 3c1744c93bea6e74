// Package widget 实现聊天挂件的 TUI 根模型
// 挂件有两种形态：收起时是停靠在角落的悬浮气泡，展开时是完整的
// 聊天窗口。状态全部来自状态容器的快照，模型自身只保留交互态
package widget

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"charm.land/bubbles/v2/filepicker"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/purpose168/floatchat-cn/internal/app"
	"github.com/purpose168/floatchat-cn/internal/event"
	"github.com/purpose168/floatchat-cn/internal/fsext"
	"github.com/purpose168/floatchat-cn/internal/message"
	"github.com/purpose168/floatchat-cn/internal/pubsub"
	"github.com/purpose168/floatchat-cn/internal/store"
	"github.com/purpose168/floatchat-cn/internal/stringext"
	"github.com/purpose168/floatchat-cn/internal/ui/attachments"
	"github.com/purpose168/floatchat-cn/internal/ui/styles"
	"github.com/purpose168/floatchat-cn/internal/ui/util"
	"github.com/purpose168/floatchat-cn/internal/validation"
)

// 窗口形态常量
const (
	windowWidth     = 72
	windowHeight    = 24
	inputHeight     = 2
	pickerMinHeight = 10
	statusTTL       = 4 * time.Second
)

// uiMode 挂件展开后的交互模式
type uiMode uint8

const (
	modeChat   uiMode = iota // 正常聊天
	modeAttach               // 文件选择器打开
)

// Model 挂件的根模型
type Model struct {
	app    *app.App
	styles *styles.Styles
	keyMap KeyMap

	state store.State
	mode  uiMode

	width, height int

	viewport    viewport.Model
	textarea    textarea.Model
	attachments *attachments.Attachments
	picker      filepicker.Model
	feedback    *feedbackForm

	status util.InfoMsg
}

// New 创建挂件模型
func New(a *app.App) *Model {
	sty := styles.New(a.Store.State().Theme)
	keyMap := DefaultKeyMap()

	ta := textarea.New()
	ta.Placeholder = "输入消息…"
	ta.ShowLineNumbers = false
	ta.CharLimit = -1
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline = keyMap.Newline
	ta.Focus()

	vp := viewport.New()
	vp.KeyMap = viewport.KeyMap{
		PageUp:   keyMap.ScrollUp,
		PageDown: keyMap.ScrollDown,
		Up:       key.NewBinding(key.WithKeys("up"), key.WithDisabled()),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithDisabled()),
	}

	m := &Model{
		app:      a,
		styles:   sty,
		keyMap:   keyMap,
		state:    a.Store.State(),
		viewport: vp,
		textarea: ta,
	}
	m.attachments = attachments.New(m.attachmentsRenderer(), keyMap.attachmentsKeymap())
	return m
}

func (m *Model) attachmentsRenderer() *attachments.Renderer {
	return attachments.NewRenderer(
		m.styles.AttachmentChip,
		m.styles.AttachmentDeleting,
		m.styles.Muted,
		styles.AttachmentIcon,
	)
}

// Init 实现 tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update 实现 tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case pubsub.Event[store.Change]:
		m.syncState(msg.Payload.State)
		return m, nil

	case app.UpdateAvailableMsg:
		if !msg.IsDevelopment {
			return m, m.setStatus(util.NewInfoMsg("新版本 v" + msg.LatestVersion + " 已发布"))
		}
		return m, nil

	case util.InfoMsg:
		return m, m.setStatus(msg)

	case util.ClearStatusMsg:
		m.status = util.InfoMsg{}
		return m, nil

	case attachments.RemoveMsg:
		m.app.Store.RemoveFile(msg.FileID)
		return m, nil

	case attachments.RemoveAllMsg:
		m.app.Store.ClearFiles()
		return m, nil

	case feedbackSubmittedMsg:
		event.FeedbackSubmitted()
		m.app.Store.HideFeedbackModal()
		m.feedback = nil
		return m, m.setStatus(util.NewInfoMsg("感谢您的反馈！"))

	case feedbackCancelledMsg:
		m.app.Store.HideFeedbackModal()
		m.feedback = nil
		return m, nil

	case tea.PasteMsg:
		return m.handlePaste(msg)

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	return m.updateChildren(msg)
}

// syncState 接收状态容器的新快照并刷新派生的视图状态
func (m *Model) syncState(next store.State) {
	prev := m.state
	m.state = next

	if next.Theme != prev.Theme {
		m.styles = styles.New(next.Theme)
		m.attachments = attachments.New(m.attachmentsRenderer(), m.keyMap.attachmentsKeymap())
		if m.feedback != nil {
			m.feedback.styles = m.styles
		}
	}
	if next.IsOpen != prev.IsOpen {
		if next.IsOpen {
			event.WidgetOpened()
		} else {
			event.WidgetClosed()
		}
	}
	if next.FeedbackModalVisible && m.feedback == nil {
		m.feedback = newFeedbackForm(m.styles)
		m.feedback.SetWidth(m.contentWidth())
		m.feedback.setFocus(focusRating)
	}
	if !next.FeedbackModalVisible {
		m.feedback = nil
	}

	m.attachments.SetList(next.PendingAttachments)
	m.layout()
	m.refreshConversation()
	m.viewport.GotoBottom()
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		return m, tea.Quit
	}

	// 收起状态：只响应展开与退出
	if !m.state.IsOpen {
		if key.Matches(msg, m.keyMap.ToggleChat) || msg.String() == "enter" {
			m.app.Store.ToggleChat()
		}
		return m, nil
	}

	// 反馈表单打开时独占输入
	if m.feedback != nil {
		return m, m.feedback.Update(msg)
	}

	// 文件选择器打开时独占输入
	if m.mode == modeAttach {
		if key.Matches(msg, m.keyMap.Escape) {
			m.mode = modeChat
			return m, nil
		}
		return m.updatePicker(msg)
	}

	// 附件删除模式
	if cmd, handled := m.attachments.Update(msg); handled {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keyMap.Send):
		return m, m.sendMessage()

	case key.Matches(msg, m.keyMap.Attach):
		if !m.app.Store.Options().AllowUpload {
			return m, m.setStatus(util.NewWarnMsg("附件上传已禁用"))
		}
		return m.openPicker()

	case key.Matches(msg, m.keyMap.ToggleChat), key.Matches(msg, m.keyMap.Escape):
		m.app.Store.ToggleChat()
		return m, nil

	case key.Matches(msg, m.keyMap.Fullscreen):
		m.app.Store.ToggleFullscreen()
		return m, nil

	case key.Matches(msg, m.keyMap.ToggleTheme):
		m.app.Store.ToggleTheme()
		return m, nil

	case key.Matches(msg, m.keyMap.Feedback):
		m.app.Store.OpenFeedbackModal()
		return m, nil

	case key.Matches(msg, m.keyMap.ClearChat):
		m.app.Store.ClearChat()
		event.ChatCleared()
		return m, m.setStatus(util.NewInfoMsg("会话已清空"))

	case key.Matches(msg, m.keyMap.VoteUp):
		m.vote(message.Upvote)
		return m, nil

	case key.Matches(msg, m.keyMap.VoteDown):
		m.vote(message.Downvote)
		return m, nil

	case key.Matches(msg, m.keyMap.ScrollUp), key.Matches(msg, m.keyMap.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m *Model) updateChildren(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.mode == modeAttach {
		return m.updatePicker(msg)
	}
	if m.feedback != nil {
		return m, m.feedback.Update(msg)
	}
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// handlePaste 处理粘贴
// 粘贴的内容若是终端拖拽产生的文件路径则直接作为附件添加，
// 否则按普通文本交给输入框
func (m *Model) handlePaste(msg tea.PasteMsg) (tea.Model, tea.Cmd) {
	if m.state.IsOpen && m.feedback == nil && m.mode == modeChat && m.app.Store.Options().AllowUpload {
		if paths := fsext.ParsePastedFiles(msg.Content); len(paths) > 0 {
			cmds := make([]tea.Cmd, 0, len(paths))
			for _, p := range paths {
				cmds = append(cmds, m.attachFile(p))
			}
			return m, tea.Batch(cmds...)
		}
	}
	return m.updateChildren(msg)
}

// sendMessage 把输入框内容与待发送附件发出去
func (m *Model) sendMessage() tea.Cmd {
	content := stringext.NormalizeSpace(m.textarea.Value())
	if content == "" && m.attachments.Empty() {
		return nil
	}
	m.app.Store.SendUserMessage(content)
	event.MessageSent()
	m.textarea.Reset()
	return nil
}

// vote 对最近一条机器人回复投票，重复投同方向的票会撤销它
func (m *Model) vote(fb message.Feedback) {
	id := lastBotMessageID(m.state)
	if id == "" {
		return
	}
	for _, msg := range m.state.Messages {
		if msg.ID == id {
			if msg.Feedback == fb {
				fb = message.FeedbackNone
			}
			break
		}
	}
	m.app.Store.UpdateMessageFeedback(id, fb)
}

func (m *Model) openPicker() (tea.Model, tea.Cmd) {
	fp := filepicker.New()
	fp.AllowedTypes = validation.AllowedExtensions()
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.AutoHeight = false
	fp.SetHeight(max(pickerMinHeight, m.contentHeight()-2))
	fp.CurrentDirectory = m.app.Config().WorkingDir()
	if fp.CurrentDirectory == "" {
		fp.CurrentDirectory, _ = os.Getwd()
	}
	m.picker = fp
	m.mode = modeAttach
	return m, m.picker.Init()
}

func (m *Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		m.mode = modeChat
		return m, m.attachFile(path)
	}
	return m, cmd
}

// attachFile 读取文件元数据并交给状态容器校验与入列
func (m *Model) attachFile(path string) tea.Cmd {
	info, err := os.Stat(path)
	if err != nil {
		return util.ReportError(err)
	}
	name := filepath.Base(path)
	if err := m.app.Store.AddFile(name, info.Size(), validation.MimeForPath(path), path); err != nil {
		return util.ReportError(err)
	}
	event.FileAttached()
	return m.setStatus(util.NewInfoMsg("已添加附件 " + name))
}

func (m *Model) setStatus(info util.InfoMsg) tea.Cmd {
	m.status = info
	ttl := info.TTL
	if ttl <= 0 {
		ttl = statusTTL
	}
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return util.ClearStatusMsg{}
	})
}

// contentWidth 返回窗口内容区宽度
func (m *Model) contentWidth() int {
	if m.state.IsFullscreen {
		return max(10, m.width-m.styles.Window.GetHorizontalFrameSize())
	}
	return max(10, min(windowWidth, m.width)-m.styles.Window.GetHorizontalFrameSize())
}

// contentHeight 返回窗口内容区高度
func (m *Model) contentHeight() int {
	if m.state.IsFullscreen {
		return max(5, m.height-m.styles.Window.GetVerticalFrameSize())
	}
	return max(5, min(windowHeight, m.height)-m.styles.Window.GetVerticalFrameSize())
}

// layout 根据窗口尺寸重排子组件
func (m *Model) layout() {
	width := m.contentWidth()
	height := m.contentHeight()

	attachRows := 0
	if len(m.state.PendingAttachments) > 0 {
		attachRows = 1
	}
	// 一行头部、输入区、一行状态
	vpHeight := max(1, height-1-inputHeight-attachRows-1)

	m.viewport.SetWidth(width)
	m.viewport.SetHeight(vpHeight)
	m.textarea.SetWidth(width)
	if m.feedback != nil {
		m.feedback.SetWidth(width)
	}
}

// refreshConversation 重新渲染视口内容
func (m *Model) refreshConversation() {
	m.viewport.SetContent(renderConversation(
		m.styles,
		m.state,
		m.app.Store.Options().BotName,
		m.viewport.Width(),
	))
}

// View 实现 tea.Model
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.BackgroundColor = m.styles.Background

	if !m.state.IsOpen {
		v.Content = m.viewBubble()
		return v
	}
	v.Content = m.viewWindow()
	return v
}

// viewBubble 渲染收起状态的悬浮气泡
func (m *Model) viewBubble() string {
	bubble := m.styles.Bubble.Render(styles.BubbleIcon)
	hint := m.styles.Subtle.Render(m.keyMap.ToggleChat.Help().Key + " 打开")
	content := lipgloss.JoinVertical(m.horizontalAlign(), bubble, hint)
	return lipgloss.Place(m.width, m.height, m.horizontalAlign(), lipgloss.Bottom, content)
}

// viewWindow 渲染展开的聊天窗口
func (m *Model) viewWindow() string {
	width := m.contentWidth()

	var body string
	switch {
	case m.feedback != nil:
		body = m.feedback.View()
	case m.mode == modeAttach:
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.styles.FormTitle.Render("选择要发送的文件"),
			m.picker.View(),
		)
	default:
		rows := []string{m.viewport.View()}
		if !m.attachments.Empty() {
			rows = append(rows, m.attachments.Render(width))
		}
		rows = append(rows, m.textarea.View())
		body = lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	window := lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(width),
		body,
		m.viewStatus(width),
	)
	boxed := m.styles.Window.Render(window)

	if m.state.IsFullscreen {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxed)
	}
	return lipgloss.Place(m.width, m.height, m.horizontalAlign(), lipgloss.Bottom, boxed)
}

func (m *Model) viewHeader(width int) string {
	title := m.styles.HeaderTitle.Render(m.app.Store.Options().BotName)
	closeHint := m.styles.Header.Render(styles.CloseIcon)
	gap := max(0, width-lipgloss.Width(title)-lipgloss.Width(closeHint))
	filler := m.styles.Header.Render(strings.Repeat(" ", gap))
	return lipgloss.JoinHorizontal(lipgloss.Left, title, filler, closeHint)
}

func (m *Model) viewStatus(width int) string {
	if !m.status.IsEmpty() {
		style := m.styles.Subtle
		switch m.status.Type {
		case util.InfoTypeWarn:
			style = m.styles.Error
		case util.InfoTypeError:
			style = m.styles.Error
		}
		return style.MaxWidth(width).Render(m.status.Msg)
	}
	help := []string{
		m.keyMap.Send.Help().Key + " " + m.keyMap.Send.Help().Desc,
		m.keyMap.Attach.Help().Key + " " + m.keyMap.Attach.Help().Desc,
		m.keyMap.Feedback.Help().Key + " " + m.keyMap.Feedback.Help().Desc,
		m.keyMap.Escape.Help().Key + " " + m.keyMap.Escape.Help().Desc,
	}
	return m.styles.StatusLine.MaxWidth(width).Render(strings.Join(help, " · "))
}

func (m *Model) horizontalAlign() lipgloss.Position {
	if m.app.Store.Options().Position == store.BottomLeft {
		return lipgloss.Left
	}
	return lipgloss.Right
}
