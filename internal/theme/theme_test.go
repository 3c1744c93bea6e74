package theme

import (
	"sync"
	"testing"
	"time"

	"github.com/purpose168/floatchat-cn/internal/env"
	"github.com/stretchr/testify/require"
)

// TestDetectSignals_Precedence 测试信号求值的固定优先级
func TestDetectSignals_Precedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sig  Signals
		want Theme
	}{
		{
			name: "无任何信号时默认亮色",
			sig:  Signals{},
			want: Light,
		},
		{
			name: "根元素带有dark类",
			sig:  Signals{RootClasses: []string{"dark"}},
			want: Dark,
		},
		{
			name: "根元素的dark类覆盖操作系统的亮色偏好",
			sig:  Signals{RootClasses: []string{"dark"}, PrefersDark: false},
			want: Dark,
		},
		{
			name: "主体元素带有dark-mode类",
			sig:  Signals{BodyClasses: []string{"app", "dark-mode"}},
			want: Dark,
		},
		{
			name: "无关类名不触发暗色",
			sig:  Signals{RootClasses: []string{"darkish", "light"}},
			want: Light,
		},
		{
			name: "显式主题属性为dark",
			sig:  Signals{DataTheme: "dark"},
			want: Dark,
		},
		{
			name: "显式主题属性为其他值",
			sig:  Signals{DataTheme: "midnight"},
			want: Light,
		},
		{
			name: "color-scheme包含dark",
			sig:  Signals{ColorScheme: "light dark"},
			want: Dark,
		},
		{
			name: "操作系统偏好暗色",
			sig:  Signals{PrefersDark: true},
			want: Dark,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, DetectSignals(tt.sig))
		})
	}
}

// TestTheme_Toggle 测试主题翻转
func TestTheme_Toggle(t *testing.T) {
	t.Parallel()

	require.Equal(t, Dark, Light.Toggle())
	require.Equal(t, Light, Dark.Toggle())
}

// TestTermHost_Signals 测试终端宿主对环境信号的映射
func TestTermHost_Signals(t *testing.T) {
	t.Parallel()

	host := NewTermHost(env.NewFromMap(map[string]string{
		"FLOATCHAT_THEME_CLASS": "dark custom",
		"FLOATCHAT_THEME":       "dark",
		"COLORFGBG":             "15;0",
	}), func() bool { return true })

	sig := host.Signals()
	require.Equal(t, []string{"dark", "custom"}, sig.RootClasses)
	require.Equal(t, "dark", sig.DataTheme)
	require.Equal(t, "dark", sig.ColorScheme)
	require.True(t, sig.PrefersDark)
}

// TestColorSchemeFromFgBg 测试 COLORFGBG 的解析
func TestColorSchemeFromFgBg(t *testing.T) {
	t.Parallel()

	require.Equal(t, "dark", colorSchemeFromFgBg("15;0"))
	require.Equal(t, "light", colorSchemeFromFgBg("0;15"))
	require.Equal(t, "dark", colorSchemeFromFgBg("12;default;0"))
	require.Equal(t, "", colorSchemeFromFgBg(""))
	require.Equal(t, "", colorSchemeFromFgBg("15;default"))
}

// mutableHost 可变信号的宿主测试桩
type mutableHost struct {
	mu  sync.Mutex
	sig Signals
}

func (h *mutableHost) Signals() Signals {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sig
}

func (h *mutableHost) set(sig Signals) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sig = sig
}

// TestPollDetector_NotifiesOnChange 测试信号变化时订阅者收到新主题
func TestPollDetector_NotifiesOnChange(t *testing.T) {
	t.Parallel()

	host := &mutableHost{}
	det := NewPollDetector(host, 10*time.Millisecond)
	defer det.Close()

	require.Equal(t, Light, det.Detect())

	got := make(chan Theme, 1)
	cancel := Sync(det, setterFunc(func(th Theme) {
		select {
		case got <- th:
		default:
		}
	}))
	defer cancel()

	// Sync 挂载时立即推送一次
	require.Equal(t, Light, <-got)

	host.set(Signals{RootClasses: []string{"dark"}})

	select {
	case th := <-got:
		require.Equal(t, Dark, th)
	case <-time.After(2 * time.Second):
		t.Fatal("等待主题变更通知超时")
	}
}

// TestPollDetector_CancelStopsNotifications 测试退订后不再收到通知
func TestPollDetector_CancelStopsNotifications(t *testing.T) {
	t.Parallel()

	host := &mutableHost{}
	det := NewPollDetector(host, 10*time.Millisecond)
	defer det.Close()

	var mu sync.Mutex
	count := 0
	cancel := det.Subscribe(func(Theme) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	cancel()

	host.set(Signals{RootClasses: []string{"dark"}})
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Zero(t, count)
}

// setterFunc 函数形式的 Setter 适配
type setterFunc func(Theme)

func (f setterFunc) SetTheme(t Theme) { f(t) }
