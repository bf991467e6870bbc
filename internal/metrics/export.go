package metrics

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const exportInterval = 30 * time.Second

// Setup installs a global meter provider. With an empty endpoint metrics
// stay in process; otherwise they are pushed over OTLP/HTTP.
// The returned function flushes and stops the provider.
func Setup(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	if strings.TrimSpace(endpoint) == "" {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		return mp.Shutdown, nil
	}

	endpoint, err := metricsURL(endpoint)
	if err != nil {
		return nil, fmt.Errorf("metrics: invalid OTLP endpoint: %w", err)
	}
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpointURL(endpoint)}
	if strings.HasPrefix(endpoint, "http://") {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("metrics: failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithHost(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(attribute.String("service.name", meterName)),
	)
	if err != nil {
		return nil, fmt.Errorf("metrics: failed to build resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(exportInterval))),
	)
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// metricsURL appends /v1/metrics unless the endpoint already ends with it.
func metricsURL(endpoint string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%q is not an absolute URL", endpoint)
	}
	path := strings.TrimSuffix(u.Path, "/")
	if !strings.HasSuffix(path, "/v1/metrics") {
		path += "/v1/metrics"
	}
	u.Path = path
	return u.String(), nil
}
