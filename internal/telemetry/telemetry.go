// Package telemetry はOpenTelemetryのトレース送信を設定する。
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/nao1215/kooking/pkg/logs"
)

// Shutdown は送信待ちのスパンを送り出して終了する関数。
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// Setup はOTLP gRPCでトレースを送信するTracerProviderを設定する。
// endpointが空の場合は何もせず、何もしないShutdownを返す。
// エクスポーターの生成に失敗した場合もログに残して計装なしで続行する。
func Setup(ctx context.Context, serviceName, endpoint string, insecure bool) Shutdown {
	if endpoint == "" {
		return noop
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		logs.Printf("[Telemetry] エクスポーターの生成に失敗: %v", err)
		return noop
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		logs.Printf("[Telemetry] リソースの生成に失敗: %v", err)
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	logs.Printv("[Telemetry] トレースを送信します: endpoint=%s", endpoint)

	return provider.Shutdown
}
