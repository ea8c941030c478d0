package tracing

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
)

// OTLP导出是异步批量的,初始化和建Span都不要求collector在线,
// 这些测试在无collector的环境也能运行

// TestInitTracer 测试Tracer初始化
func TestInitTracer(t *testing.T) {
	shutdown, err := InitTracer("library-test", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	if otel.Tracer("library") == nil {
		t.Error("全局TracerProvider未设置")
	}

	t.Log("✅ Tracer初始化成功")
}

// TestStartSpan 测试Span创建
func TestStartSpan(t *testing.T) {
	shutdown, err := InitTracer("library-test", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	t.Run("创建根Span", func(t *testing.T) {
		ctx, span := StartSpan(context.Background(), "library", "BorrowBook")
		defer span.End()

		if !span.SpanContext().IsValid() {
			t.Fatal("Span无效")
		}
		traceID := ExtractTraceID(ctx)
		if traceID == "" {
			t.Error("TraceID为空")
		}

		t.Logf("✅ 根Span创建成功, TraceID=%s", traceID)
	})

	t.Run("子Span共享TraceID", func(t *testing.T) {
		ctx, rootSpan := StartSpan(context.Background(), "library", "BorrowBook")
		defer rootSpan.End()

		childCtx, childSpan := StartSpan(ctx, "library", "ReserveCopy")
		defer childSpan.End()

		if ExtractTraceID(childCtx) != ExtractTraceID(ctx) {
			t.Errorf("子Span应继承TraceID: root=%s, child=%s",
				ExtractTraceID(ctx), ExtractTraceID(childCtx))
		}
		if ExtractSpanID(childCtx) == ExtractSpanID(ctx) {
			t.Error("子Span应有独立的SpanID")
		}

		t.Log("✅ 子Span创建成功")
	})
}

// TestExtract_NoSpan 测试无Span的上下文
func TestExtract_NoSpan(t *testing.T) {
	if id := ExtractTraceID(context.Background()); id != "" {
		t.Errorf("无Span时TraceID应为空: got=%s", id)
	}
	if id := ExtractSpanID(context.Background()); id != "" {
		t.Errorf("无Span时SpanID应为空: got=%s", id)
	}
}
