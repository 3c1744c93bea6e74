package theme

// Setter 接收主题变更的一方，由状态容器实现
type Setter interface {
	SetTheme(Theme)
}

// Sync 把检测器的输出桥接到状态容器
// 挂载时立即推送一次当前主题，此后每次检测到变化都重新推送；
// 返回的取消函数在挂件销毁时调用，干净地退订信号源
func Sync(det Detector, setter Setter) (cancel func()) {
	setter.SetTheme(det.Detect())
	return det.Subscribe(func(t Theme) {
		setter.SetTheme(t)
	})
}
