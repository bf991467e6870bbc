package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Sum[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Sum[int64]{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, m.Name)
			out[m.Name] = sum
		}
	}
	return out
}

func value(sum metricdata.Sum[int64], key, val string) int64 {
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == val {
			return dp.Value
		}
		if key == "" && dp.Attributes.Len() == 0 {
			return dp.Value
		}
	}
	return 0
}

func TestRecorder(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { mp.Shutdown(context.Background()) })

	r, err := New(mp)
	require.NoError(t, err)

	ctx := context.Background()
	r.Search(ctx, "links")
	r.Search(ctx, "links")
	r.Search(ctx, "no_results")
	r.Profile(ctx, "ok")
	r.Profile(ctx, "skipped")
	r.Employees(ctx, 4)
	r.Employees(ctx, 0)
	r.Run(ctx, true)
	r.Run(ctx, false)
	r.Saved(ctx)

	got := collect(t, reader)
	assert.Equal(t, int64(2), value(got["linkedin_leads.searches"], "outcome", "links"))
	assert.Equal(t, int64(1), value(got["linkedin_leads.searches"], "outcome", "no_results"))
	assert.Equal(t, int64(1), value(got["linkedin_leads.profiles"], "status", "skipped"))
	assert.Equal(t, int64(4), value(got["linkedin_leads.employees"], "", ""))
	assert.Equal(t, int64(1), value(got["linkedin_leads.runs"], "status", "failed"))
	assert.Equal(t, int64(1), value(got["linkedin_leads.leads_saved"], "", ""))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Search(context.Background(), "error")
		r.Profile(context.Background(), "ok")
		r.Employees(context.Background(), 3)
		r.Run(context.Background(), true)
		r.Saved(context.Background())
	})
}

func TestMetricsURL(t *testing.T) {
	for in, want := range map[string]string{
		"http://collector:4318":              "http://collector:4318/v1/metrics",
		"https://otel.example/":              "https://otel.example/v1/metrics",
		"https://otel.example/v1/metrics":    "https://otel.example/v1/metrics",
		"https://otel.example/otlp?tenant=a": "https://otel.example/otlp/v1/metrics?tenant=a",
	} {
		got, err := metricsURL(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := metricsURL("collector:4318")
	assert.Error(t, err)
}

func TestSetupInProcess(t *testing.T) {
	shutdown, err := Setup(context.Background(), "")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
