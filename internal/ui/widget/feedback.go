package widget

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/purpose168/floatchat-cn/internal/ui/styles"
	"github.com/purpose168/floatchat-cn/internal/validation"
)

// feedbackSubmittedMsg 在表单通过校验并提交时发送
type feedbackSubmittedMsg struct {
	Rating   int
	Comments string
	Email    string
}

// feedbackCancelledMsg 在表单被取消时发送
type feedbackCancelledMsg struct{}

// 表单焦点顺序
const (
	focusRating = iota
	focusComments
	focusEmail
	focusCount
)

// feedbackForm 反馈表单
// 评分为必填项，评论与邮箱可选；邮箱在提交时校验，校验失败时
// 表单保持打开并显示错误
type feedbackForm struct {
	styles *styles.Styles

	rating   int // 0 表示未选择，有效值 1..5
	comments textarea.Model
	email    textinput.Model

	focus  int
	errMsg string
}

func newFeedbackForm(sty *styles.Styles) *feedbackForm {
	ta := textarea.New()
	ta.Placeholder = "告诉我们您的想法（可选）"
	ta.ShowLineNumbers = false
	ta.CharLimit = 500
	ta.SetHeight(3)

	ti := textinput.New()
	ti.Placeholder = "email@example.com（可选）"
	ti.CharLimit = validation.MaxEmailLength + 1

	return &feedbackForm{
		styles:   sty,
		comments: ta,
		email:    ti,
	}
}

func (f *feedbackForm) SetWidth(width int) {
	f.comments.SetWidth(width)
	f.email.SetWidth(width)
}

func (f *feedbackForm) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return f.updateFocused(msg)
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("esc"))):
		return func() tea.Msg { return feedbackCancelledMsg{} }
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("tab"))):
		f.setFocus((f.focus + 1) % focusCount)
		return nil
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("shift+tab"))):
		f.setFocus((f.focus + focusCount - 1) % focusCount)
		return nil
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("ctrl+s"))):
		return f.submit()
	}

	if f.focus == focusRating {
		switch keyMsg.String() {
		case "1", "2", "3", "4", "5":
			f.rating = int(keyMsg.Code - '0')
			return nil
		case "left":
			if f.rating > 1 {
				f.rating--
			}
			return nil
		case "right":
			if f.rating == 0 || f.rating < 5 {
				if f.rating == 0 {
					f.rating = 1
				} else {
					f.rating++
				}
			}
			return nil
		case "enter":
			f.setFocus(focusComments)
			return nil
		}
		return nil
	}

	if f.focus == focusEmail && keyMsg.String() == "enter" {
		return f.submit()
	}

	return f.updateFocused(msg)
}

func (f *feedbackForm) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case focusComments:
		f.comments, cmd = f.comments.Update(msg)
	case focusEmail:
		f.email, cmd = f.email.Update(msg)
	}
	return cmd
}

func (f *feedbackForm) setFocus(focus int) {
	f.focus = focus
	f.comments.Blur()
	f.email.Blur()
	switch focus {
	case focusComments:
		f.comments.Focus()
	case focusEmail:
		f.email.Focus()
	}
}

// submit 校验表单并发出提交消息
// 评分缺失或邮箱非法时表单保持打开，不丢弃已输入的内容
func (f *feedbackForm) submit() tea.Cmd {
	if f.rating == 0 {
		f.errMsg = "请先选择评分"
		return nil
	}
	email := strings.TrimSpace(f.email.Value())
	if err := validation.ValidateEmail(email); err != nil {
		f.errMsg = err.Error()
		return nil
	}

	f.errMsg = ""
	result := feedbackSubmittedMsg{
		Rating:   f.rating,
		Comments: strings.TrimSpace(f.comments.Value()),
		Email:    email,
	}
	return func() tea.Msg { return result }
}

func (f *feedbackForm) View() string {
	sty := f.styles
	var b strings.Builder

	b.WriteString(sty.FormTitle.Render("向我们反馈"))
	b.WriteString("\n\n")

	// 评分行：1-5 颗星
	stars := make([]string, 5)
	for i := range stars {
		icon := "☆"
		style := sty.VoteInactive
		if i < f.rating {
			icon = "★"
			style = sty.VoteActive
		}
		stars[i] = style.Render(icon)
	}
	ratingLabel := sty.FormLabel.Render("评分（必填）")
	if f.focus == focusRating {
		ratingLabel = sty.FormTitle.Render("评分（必填）")
	}
	b.WriteString(fmt.Sprintf("%s %s\n\n", ratingLabel, strings.Join(stars, " ")))

	b.WriteString(sty.FormLabel.Render("评论"))
	b.WriteString("\n")
	b.WriteString(f.comments.View())
	b.WriteString("\n\n")

	b.WriteString(sty.FormLabel.Render("邮箱"))
	b.WriteString("\n")
	b.WriteString(f.email.View())
	b.WriteString("\n")

	if f.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(sty.Error.Render(f.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(sty.Subtle.Render("tab 切换 · ctrl+s 提交 · esc 取消"))

	return b.String()
}
