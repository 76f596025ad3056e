package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace 所有指标的命名空间
const Namespace = "tsu_arena"

const defaultServiceName = "arena"

var (
	mu          sync.RWMutex
	registerer  prometheus.Registerer = prometheus.DefaultRegisterer
	serviceName                       = defaultServiceName
)

// SetRegisterer 替换默认实例之外新建指标的注册表，nil 恢复为 prometheus.DefaultRegisterer
func SetRegisterer(r prometheus.Registerer) {
	if r == nil {
		r = prometheus.DefaultRegisterer
	}
	mu.Lock()
	registerer = r
	mu.Unlock()
}

// GetRegisterer 当前注册表
func GetRegisterer() prometheus.Registerer {
	mu.RLock()
	defer mu.RUnlock()
	return registerer
}

// SetServiceName 所有指标 service 标签的默认值
func SetServiceName(name string) {
	if name == "" {
		name = defaultServiceName
	}
	mu.Lock()
	serviceName = name
	mu.Unlock()
}

// GetServiceName 当前服务名
func GetServiceName() string {
	mu.RLock()
	defer mu.RUnlock()
	return serviceName
}

func normalizeServiceName(name string) string {
	if name == "" {
		return GetServiceName()
	}
	return name
}
