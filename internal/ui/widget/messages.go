package widget

import (
	"fmt"
	"strings"

	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/purpose168/floatchat-cn/internal/ansiext"
	"github.com/purpose168/floatchat-cn/internal/message"
	"github.com/purpose168/floatchat-cn/internal/store"
	"github.com/purpose168/floatchat-cn/internal/ui/styles"
)

// renderConversation 把会话消息渲染成视口内容
// 用户消息按纯文本渲染，机器人消息经 glamour 以 markdown 渲染；
// 机器人消息下方带投票指示，带附件的消息列出附件名与大小
func renderConversation(sty *styles.Styles, state store.State, botName string, width int) string {
	if len(state.Messages) == 0 && !state.IsLoading {
		return sty.Subtle.Render("还没有消息。说点什么吧！")
	}

	md, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle(sty.MarkdownStyle()),
		glamour.WithWordWrap(width),
	)

	var b strings.Builder
	for i, msg := range state.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderMessage(sty, md, msg, botName, width))
	}

	if state.IsLoading {
		b.WriteString("\n")
		b.WriteString(sty.BotLabel.Render(botName))
		b.WriteString(" ")
		b.WriteString(sty.Loading.Render("正在输入" + styles.LoadingIcon))
	}

	return b.String()
}

func renderMessage(sty *styles.Styles, md *glamour.TermRenderer, msg message.Message, botName string, width int) string {
	var b strings.Builder

	// 发送者标签与相对时间戳
	label := sty.UserLabel.Render("我")
	if msg.Sender == message.Bot {
		label = sty.BotLabel.Render(botName)
	}
	b.WriteString(label)
	b.WriteString(" ")
	b.WriteString(sty.Timestamp.Render(humanize.Time(msg.Timestamp)))
	b.WriteString("\n")

	// 正文
	switch msg.Sender {
	case message.Bot:
		rendered, err := renderMarkdown(md, msg.Content)
		if err != nil {
			rendered = msg.Content
		}
		b.WriteString(strings.TrimRight(rendered, "\n"))
	default:
		// 用户输入可能带控制字符，替换成可见的替代符号再渲染
		b.WriteString(sty.Base.Width(width).Render(ansiext.Escape(msg.Content)))
	}
	b.WriteString("\n")

	// 附件列表
	for _, f := range msg.Files {
		b.WriteString(sty.Muted.Render(fmt.Sprintf("%s %s（%s）", styles.AttachmentIcon, f.Name, humanize.IBytes(uint64(f.Size)))))
		b.WriteString("\n")
	}

	// 仅机器人消息可投票
	if msg.Sender == message.Bot {
		b.WriteString(renderVotes(sty, msg.Feedback))
		b.WriteString("\n")
	}

	return b.String()
}

func renderVotes(sty *styles.Styles, fb message.Feedback) string {
	up := sty.VoteInactive.Render(styles.UpvoteIcon)
	down := sty.VoteInactive.Render(styles.DownvoteIcon)
	switch fb {
	case message.Upvote:
		up = sty.VoteActive.Render(styles.UpvoteIcon)
	case message.Downvote:
		down = sty.VoteActive.Render(styles.DownvoteIcon)
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, up, " ", down)
}

func renderMarkdown(md *glamour.TermRenderer, content string) (string, error) {
	if md == nil {
		return content, nil
	}
	return md.Render(content)
}

// lastBotMessageID 返回最近一条机器人消息的标识，没有则返回空串
func lastBotMessageID(state store.State) string {
	for i := len(state.Messages) - 1; i >= 0; i-- {
		if state.Messages[i].Sender == message.Bot {
			return state.Messages[i].ID
		}
	}
	return ""
}
