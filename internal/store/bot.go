package store

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/purpose168/floatchat-cn/internal/message"
)

// 模拟回复的延迟区间，模仿真人客服的打字节奏
const (
	replyDelayMin = time.Second
	replyDelayMax = 2 * time.Second
)

// replyTemplates 占位回复池，{bot} 会替换为配置的机器人名称
var replyTemplates = []string{
	"收到，我来看一下，请稍等。",
	"感谢反馈！我是{bot}，这个问题我帮您确认后尽快答复。",
	"好的，已经记录下来了。还有其他需要补充的信息吗？",
	"明白了。您可以把相关文件发给我，我来帮您处理。",
	"这个问题比较常见，您可以先试试刷新页面；如果还不行请告诉我。",
}

// responder 模拟的机器人应答器
// 每次调度都绑定到所属容器的生命周期：容器关闭时未触发的回复
// 会被取消，不会出现向已关闭容器追加消息的定时器
type responder struct {
	store *Store

	mu    sync.Mutex
	timer *time.Timer
}

func newResponder(s *Store) *responder {
	return &responder{store: s}
}

// schedule 在随机延迟后追加一条机器人回复
// 新的调度会取消尚未触发的旧调度，加载指示在回复送达前保持开启
func (r *responder) schedule() {
	delay := replyDelayMin + rand.N(replyDelayMax-replyDelayMin)
	reply := r.compose()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}

	r.store.SetLoading(true)
	r.timer = time.AfterFunc(delay, func() {
		select {
		case <-r.store.ctx.Done():
			return
		default:
		}
		r.store.AddMessage(reply, message.Bot, nil)
		r.store.SetLoading(false)
	})
}

// cancel 停止尚未触发的回复并清除加载指示
func (r *responder) cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer == nil {
		return
	}
	if r.timer.Stop() {
		r.store.SetLoading(false)
	}
	r.timer = nil
}

func (r *responder) compose() string {
	tpl := replyTemplates[rand.N(len(replyTemplates))]
	return strings.ReplaceAll(tpl, "{bot}", r.store.opts.BotName)
}
