// Package theme 负责推断宿主环境的明暗主题并保持挂件主题实时同步
// 挂件自身不持有主题配置：主题永远从宿主信号实时推导
package theme

import "strings"

// Theme 明暗主题
type Theme string

const (
	Light Theme = "light" // 亮色主题
	Dark  Theme = "dark"  // 暗色主题
)

// Toggle 返回相反的主题
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Signals 宿主环境暴露的主题信号快照
// 由具体的宿主实现采集，挂件只读取、从不修改宿主状态
type Signals struct {
	RootClasses []string // 根元素上的样式类
	BodyClasses []string // 主体元素上的样式类
	DataTheme   string   // 显式的主题属性值
	ColorScheme string   // 计算出的 color-scheme 属性
	PrefersDark bool     // 操作系统级的暗色偏好
}

// darkClasses 常见的暗色主题指示类名
var darkClasses = []string{"dark", "dark-mode"}

// DetectSignals 按固定优先级对信号求值，首个命中者胜出:
//  1. 根元素或主体元素带有暗色指示类
//  2. 显式主题属性等于 "dark"
//  3. color-scheme 属性包含 "dark"
//  4. 操作系统偏好暗色
//  5. 默认亮色
func DetectSignals(sig Signals) Theme {
	for _, cls := range sig.RootClasses {
		if isDarkClass(cls) {
			return Dark
		}
	}
	for _, cls := range sig.BodyClasses {
		if isDarkClass(cls) {
			return Dark
		}
	}
	if sig.DataTheme == "dark" {
		return Dark
	}
	if strings.Contains(sig.ColorScheme, "dark") {
		return Dark
	}
	if sig.PrefersDark {
		return Dark
	}
	return Light
}

func isDarkClass(cls string) bool {
	for _, dark := range darkClasses {
		if cls == dark {
			return true
		}
	}
	return false
}
