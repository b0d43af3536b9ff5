package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ExportDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pdexport_export_duration_seconds",
		Help:    "单次导出耗时",
		Buckets: prometheus.DefBuckets,
	})

	ExportErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pdexport_export_errors_total",
		Help: "导出失败次数",
	})

	PagesFetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pdexport_pages_fetched_total",
		Help: "按资源统计的已拉取分页数",
	}, []string{"resource"})

	RecordsFetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pdexport_records_fetched_total",
		Help: "按资源统计的已拉取记录数",
	}, []string{"resource"})

	RowsWritten = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pdexport_rows_written",
		Help: "最近一次导出中每个文件写入的行数",
	}, []string{"file"})

	LastSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pdexport_last_success_timestamp_seconds",
		Help: "最近一次成功导出的时间戳",
	})
)

var registerOnce sync.Once

// MustRegister 注册指标，可在 main 中调用；重复调用只注册一次。
func MustRegister(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(ExportDuration, ExportErrors, PagesFetched, RecordsFetched, RowsWritten, LastSuccess)
	})
}

// WriteTextfile 把 gatherer 中的指标以文本格式写入 path，供 node_exporter textfile collector 采集。
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return prometheus.WriteToTextfile(path, g)
}
