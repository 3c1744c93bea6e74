// Package env 提供对进程环境变量的抽象
// 通过接口隔离真实环境与测试环境，便于对依赖环境信号的组件（如主题检测器）进行单元测试
package env

import (
	"fmt"
	"os"
)

// Env 环境变量访问接口
type Env interface {
	// Get 返回指定键的值，不存在时返回空字符串
	Get(key string) string
	// Env 以 key=value 形式返回全部环境变量
	Env() []string
}

// New 创建一个基于真实进程环境的 Env 实例
func New() Env {
	return &osEnv{}
}

// NewFromMap 从给定的映射创建一个 Env 实例，主要用于测试
func NewFromMap(m map[string]string) Env {
	return &mapEnv{m: m}
}

// osEnv 基于 os 包的环境变量实现
type osEnv struct{}

func (o *osEnv) Get(key string) string {
	return os.Getenv(key)
}

func (o *osEnv) Env() []string {
	return os.Environ()
}

// mapEnv 基于内存映射的环境变量实现
type mapEnv struct {
	m map[string]string
}

func (m *mapEnv) Get(key string) string {
	return m.m[key]
}

func (m *mapEnv) Env() []string {
	if len(m.m) == 0 {
		return nil
	}
	env := make([]string, 0, len(m.m))
	for k, v := range m.m {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return env
}
