package ioc

import (
	"pdexport/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// InitMetrics 把导出指标注册到默认 registry 并返回对应的 gatherer。
func InitMetrics() prometheus.Gatherer {
	metrics.MustRegister(prometheus.DefaultRegisterer)
	return prometheus.DefaultGatherer
}
