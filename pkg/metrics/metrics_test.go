package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestInitMetrics 测试指标初始化
func TestInitMetrics(t *testing.T) {
	InitMetrics()

	if HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal未初始化")
	}
	if HTTPRequestDuration == nil {
		t.Error("HTTPRequestDuration未初始化")
	}
	if HTTPRequestsInProgress == nil {
		t.Error("HTTPRequestsInProgress未初始化")
	}
	if BorrowingsCreatedTotal == nil {
		t.Error("BorrowingsCreatedTotal未初始化")
	}
	if BorrowingsRejectedTotal == nil {
		t.Error("BorrowingsRejectedTotal未初始化")
	}
	if BorrowTxDuration == nil {
		t.Error("BorrowTxDuration未初始化")
	}

	// 重复初始化不应panic（promauto重复注册会panic，靠initialized守卫）
	InitMetrics()

	t.Log("✅ 所有指标初始化成功")
}

// TestCounter 测试Counter指标
func TestCounter(t *testing.T) {
	InitMetrics()

	before := getCounterValue(t, BorrowingsCreatedTotal)

	IncCounter(BorrowingsCreatedTotal)
	IncCounter(BorrowingsCreatedTotal)
	IncCounter(BorrowingsCreatedTotal)

	delta := getCounterValue(t, BorrowingsCreatedTotal) - before
	if delta != 3 {
		t.Errorf("Counter增量错误: expected=3, got=%f", delta)
	}

	t.Log("✅ Counter测试通过")
}

// TestCounterVec 测试CounterVec指标
func TestCounterVec(t *testing.T) {
	InitMetrics()

	noCopies := map[string]string{"reason": "no_copies"}
	limitExceeded := map[string]string{"reason": "limit_exceeded"}

	before := getCounterVecValue(t, BorrowingsRejectedTotal, noCopies)

	IncCounterVec(BorrowingsRejectedTotal, noCopies)
	IncCounterVec(BorrowingsRejectedTotal, limitExceeded)
	IncCounterVec(BorrowingsRejectedTotal, noCopies)

	delta := getCounterVecValue(t, BorrowingsRejectedTotal, noCopies) - before
	if delta != 2 {
		t.Errorf("CounterVec增量错误: expected=2, got=%f", delta)
	}

	t.Log("✅ CounterVec测试通过")
}

// TestGauge 测试Gauge指标
func TestGauge(t *testing.T) {
	InitMetrics()

	before := getGaugeValue(t, HTTPRequestsInProgress)

	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	if v := getGaugeValue(t, HTTPRequestsInProgress) - before; v != 2 {
		t.Errorf("Gauge递增后增量错误: expected=2, got=%f", v)
	}

	DecGauge(HTTPRequestsInProgress)
	if v := getGaugeValue(t, HTTPRequestsInProgress) - before; v != 1 {
		t.Errorf("Gauge递减后增量错误: expected=1, got=%f", v)
	}
	DecGauge(HTTPRequestsInProgress)

	t.Log("✅ Gauge测试通过")
}

// TestGaugeVec 测试GaugeVec指标
func TestGaugeVec(t *testing.T) {
	InitMetrics()

	// 记录熔断器状态：0=CLOSED, 1=OPEN
	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "book-cache"}, 0)
	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "event-publisher"}, 1)

	if v := getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "book-cache"}); v != 0 {
		t.Errorf("GaugeVec值错误: expected=0, got=%f", v)
	}
	if v := getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "event-publisher"}); v != 1 {
		t.Errorf("GaugeVec值错误: expected=1, got=%f", v)
	}

	t.Log("✅ GaugeVec测试通过")
}

// TestHistogram 测试Histogram指标
func TestHistogram(t *testing.T) {
	InitMetrics()

	beforeCount, beforeSum := getHistogramStats(t, BorrowTxDuration)

	ObserveHistogram(BorrowTxDuration, 0.05)
	ObserveHistogram(BorrowTxDuration, 0.1)
	ObserveHistogram(BorrowTxDuration, 0.5)

	count, sum := getHistogramStats(t, BorrowTxDuration)
	if count-beforeCount != 3 {
		t.Errorf("Histogram观测次数错误: expected=3, got=%d", count-beforeCount)
	}
	if sum-beforeSum != 0.65 {
		t.Errorf("Histogram总和错误: expected=0.65, got=%f", sum-beforeSum)
	}

	t.Log("✅ Histogram测试通过")
}

// TestHistogramVec 测试HistogramVec指标
func TestHistogramVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"method": "POST", "path": "/api/v1/borrowings"}

	ObserveHistogramVec(HTTPRequestDuration, labels, 0.05)
	ObserveHistogramVec(HTTPRequestDuration, labels, 0.1)
	ObserveHistogramVec(HTTPRequestDuration, map[string]string{"method": "GET", "path": "/api/v1/books"}, 0.2)

	h, ok := HTTPRequestDuration.With(labels).(prometheus.Histogram)
	if !ok {
		t.Fatal("HistogramVec.With应返回Histogram")
	}
	count, _ := getHistogramStats(t, h)
	if count < 2 {
		t.Errorf("HistogramVec观测次数错误: expected>=2, got=%d", count)
	}

	t.Log("✅ HistogramVec测试通过")
}

// ==================== 读取指标值的辅助函数 ====================

func getCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("读取Counter失败: %v", err)
	}
	return m.GetCounter().GetValue()
}

func getCounterVecValue(t *testing.T, c *prometheus.CounterVec, labels map[string]string) float64 {
	t.Helper()
	return getCounterValue(t, c.With(labels))
}

func getGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("读取Gauge失败: %v", err)
	}
	return m.GetGauge().GetValue()
}

func getGaugeVecValue(t *testing.T, g *prometheus.GaugeVec, labels map[string]string) float64 {
	t.Helper()
	return getGaugeValue(t, g.With(labels))
}

func getHistogramStats(t *testing.T, h prometheus.Histogram) (uint64, float64) {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("读取Histogram失败: %v", err)
	}
	return m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum()
}
