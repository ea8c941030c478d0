// Package metrics 提供基于Prometheus的指标收集
//
// 指标类型选择：
// - 计数用Counter：请求数、借阅数、错误数（只增不减，以_total结尾）
// - 瞬时值用Gauge：处理中的请求数、熔断器状态
// - 分布用Histogram：请求耗时、事务耗时（自动计算P50/P90/P99）
//
// 使用方式：
// 1. 程序启动时调用InitMetrics()注册所有指标
// 2. 通过promhttp.Handler()暴露/metrics端点给Prometheus抓取
// 3. 标签只用低基数维度（method/path/status），不要用user_id之类的高基数值
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（/api/v1/borrowings）、status（200/400）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 借阅业务指标

	// BorrowingsCreatedTotal 借阅成功总数（Counter）
	BorrowingsCreatedTotal prometheus.Counter

	// BorrowingsRejectedTotal 借阅被拒总数（Counter）
	// 标签：reason（no_copies/limit_exceeded/user_inactive/conflict）
	BorrowingsRejectedTotal *prometheus.CounterVec

	// ReturnsTotal 归还成功总数（Counter）
	ReturnsTotal prometheus.Counter

	// FinesAssessedTotal 产生罚款的归还总数（Counter）
	FinesAssessedTotal prometheus.Counter

	// BorrowTxDuration 借阅事务耗时（Histogram）
	BorrowTxDuration prometheus.Histogram

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 必须在程序启动时调用一次，用于注册所有指标到全局Registry
//
// 设计要点：
// 1. 使用promauto.New*自动注册到默认Registry
// 2. Counter使用*Vec支持标签（多维度统计）
// 3. Histogram的Buckets根据业务场景定制
func InitMetrics() {
	// 防止重复初始化
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 借阅业务指标
	BorrowingsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "borrowings_created_total",
			Help: "借阅成功总数",
		},
	)

	BorrowingsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "borrowings_rejected_total",
			Help: "借阅被拒总数",
		},
		[]string{"reason"}, // 标签：拒绝原因
	)

	ReturnsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "returns_total",
			Help: "归还成功总数",
		},
	)

	FinesAssessedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fines_assessed_total",
			Help: "产生罚款的归还总数",
		},
	)

	BorrowTxDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "borrow_tx_duration_seconds",
			Help: "借阅事务耗时（秒）",
			// 借阅事务涉及行锁竞争，耗时分布比普通查询宽
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)
}

// IncCounter 递增Counter（便捷函数）
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
