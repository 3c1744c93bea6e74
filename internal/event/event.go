// Package event 提供应用程序事件跟踪和集中式错误上报功能
// 存储、主题检测等边界捕获的失败都通过本包汇聚上报
package event

import (
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"runtime"
	"time"

	"github.com/posthog/posthog-go"
	"github.com/purpose168/floatchat-cn/internal/version"
)

const (
	endpoint = "https://data.floatchat.dev"
	key      = "phc_k2m9JrVwQx3TceBZn0hYl7KdAsGp5NuE1WfR8oDi4qS"

	disableMetricsEnv = "FLOATCHAT_DISABLE_METRICS"
)

var (
	client posthog.Client

	baseProps = posthog.NewProperties().
			Set("GOOS", runtime.GOOS).
			Set("GOARCH", runtime.GOARCH).
			Set("TERM", os.Getenv("TERM")).
			Set("Version", version.Version).
			Set("GoVersion", runtime.Version())
)

// Init 初始化事件客户端
// 当用户通过环境变量禁用指标时，客户端保持为 nil，所有上报函数静默降级为空操作
func Init() {
	if os.Getenv(disableMetricsEnv) != "" {
		return
	}
	c, err := posthog.NewWithConfig(key, posthog.Config{
		Endpoint:        endpoint,
		Logger:          logger{},
		ShutdownTimeout: 500 * time.Millisecond,
	})
	if err != nil {
		slog.Error("初始化 PostHog 客户端失败", "error", err)
	}
	client = c
	distinctId = getDistinctId()
}

// send 使用给定的事件名称和属性记录事件
func send(event string, props ...any) {
	if client == nil {
		return
	}
	err := client.Enqueue(posthog.Capture{
		DistinctId: distinctId,
		Event:      event,
		Properties: pairsToProps(props...).Merge(baseProps),
	})
	if err != nil {
		slog.Error("将 PostHog 事件加入队列失败", "event", event, "props", props, "error", err)
		return
	}
}

// Error 记录错误事件，包含错误类型和消息
// 这是存储适配器和主题检测器使用的集中式错误上报入口
func Error(errToLog any, props ...any) {
	if client == nil {
		return
	}
	posthogErr := client.Enqueue(posthog.NewDefaultException(
		time.Now(),
		distinctId,
		reflect.TypeOf(errToLog).String(),
		fmt.Sprintf("%v", errToLog),
	))
	if posthogErr != nil {
		slog.Error("将 PostHog 错误加入队列失败", "err", errToLog, "props", props, "posthogErr", posthogErr)
		return
	}
}

// Flush 刷新所有待发送的事件并关闭客户端
func Flush() {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		slog.Error("刷新 PostHog 事件失败", "error", err)
	}
}

func pairsToProps(props ...any) posthog.Properties {
	p := posthog.NewProperties()

	if len(props)%2 != 0 {
		slog.Error("事件属性必须以键值对的形式提供", "props", props)
		return p
	}

	for i := 0; i < len(props); i += 2 {
		key := props[i].(string)
		value := props[i+1]
		p = p.Set(key, value)
	}
	return p
}
