package theme

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/purpose168/floatchat-cn/internal/csync"
	"github.com/purpose168/floatchat-cn/internal/env"
)

// Host 宿主信号源
// 任何能提供 [Signals] 快照的环境都可以作为宿主：终端、嵌入方应用或测试桩
type Host interface {
	Signals() Signals
}

// Detector 主题检测能力接口
// 任何具体实现（轮询、平台原生信号）都可以满足它
type Detector interface {
	// Detect 立即求值并返回当前主题
	Detect() Theme
	// Subscribe 注册变更回调，返回的取消函数必须在挂件销毁时调用，
	// 以避免泄漏观察者
	Subscribe(onChange func(Theme)) (cancel func())
}

// 环境变量信号名
const (
	themeClassEnv  = "FLOATCHAT_THEME_CLASS" // 暗色指示类，空格分隔
	themeAttrEnv   = "FLOATCHAT_THEME"       // 显式主题属性
	colorFgBgEnv   = "COLORFGBG"             // 终端前景/背景色提示
	defaultPollGap = 2 * time.Second         // 默认轮询间隔
)

// termHost 基于终端环境的宿主实现
// 将终端世界的信号映射到通用的 [Signals] 结构:
// 显式环境变量对应主题类与属性，COLORFGBG 对应 color-scheme，
// prefersDark 探测函数对应操作系统偏好
type termHost struct {
	env         env.Env
	prefersDark func() bool
}

// NewTermHost 创建一个终端宿主
// prefersDark 为可选的终端背景探测函数，传 nil 表示无法探测
func NewTermHost(e env.Env, prefersDark func() bool) Host {
	return &termHost{env: e, prefersDark: prefersDark}
}

func (h *termHost) Signals() Signals {
	sig := Signals{
		RootClasses: strings.Fields(h.env.Get(themeClassEnv)),
		DataTheme:   h.env.Get(themeAttrEnv),
		ColorScheme: colorSchemeFromFgBg(h.env.Get(colorFgBgEnv)),
	}
	if h.prefersDark != nil {
		sig.PrefersDark = h.prefersDark()
	}
	return sig
}

// colorSchemeFromFgBg 从 COLORFGBG（形如 "15;0"）推导 color-scheme
// 背景色号小于等于 8 视为暗色背景；无法解析时返回空字符串
func colorSchemeFromFgBg(value string) string {
	parts := strings.Split(value, ";")
	if len(parts) < 2 {
		return ""
	}
	bg, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return ""
	}
	if bg <= 8 {
		return "dark"
	}
	return "light"
}

// StaticHost 返回固定信号的宿主，供嵌入方显式传入信号或测试使用
func StaticHost(sig Signals) Host {
	return staticHost{sig: sig}
}

type staticHost struct {
	sig Signals
}

func (h staticHost) Signals() Signals {
	return h.sig
}

// PollDetector 基于轮询的检测器实现
// 周期性地重新采集宿主信号，信号求值结果变化时通知所有订阅者
type PollDetector struct {
	host     Host
	interval time.Duration
	last     *csync.Value[Theme]
	subs     *csync.Map[int, func(Theme)]
	nextID   int
	idMu     sync.Mutex
	loopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewPollDetector 创建一个轮询检测器
// interval 小于等于零时使用默认间隔
func NewPollDetector(host Host, interval time.Duration) *PollDetector {
	if interval <= 0 {
		interval = defaultPollGap
	}
	d := &PollDetector{
		host:     host,
		interval: interval,
		subs:     csync.NewMap[int, func(Theme)](),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	d.last = csync.NewValue(d.Detect())
	return d
}

// Detect 实现 [Detector] 接口
func (d *PollDetector) Detect() Theme {
	return DetectSignals(d.host.Signals())
}

// Subscribe 实现 [Detector] 接口
// 第一个订阅者会启动轮询循环；取消函数只移除对应回调
func (d *PollDetector) Subscribe(onChange func(Theme)) (cancel func()) {
	d.idMu.Lock()
	id := d.nextID
	d.nextID++
	d.idMu.Unlock()

	d.subs.Set(id, onChange)
	d.loopOnce.Do(func() {
		go d.loop()
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			d.subs.Del(id)
		})
	}
}

// Close 停止轮询循环并等待其退出
// 关闭后检测器不再发出任何通知
func (d *PollDetector) Close() {
	select {
	case <-d.stop:
		return
	default:
		close(d.stop)
	}
	// 循环从未启动时 done 不会被关闭
	d.loopOnce.Do(func() {
		close(d.done)
	})
	<-d.done
}

// loop 轮询循环
func (d *PollDetector) loop() {
	defer close(d.done)
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			cur := d.Detect()
			if cur == d.last.Get() {
				continue
			}
			d.last.Set(cur)
			for fn := range d.subs.Seq() {
				fn(cur)
			}
		}
	}
}
