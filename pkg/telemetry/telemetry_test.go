package telemetry

import (
	"context"
	"testing"

	"github.com/abgdnv/productcrud/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func Test_NewTracerProvider_WithoutExporter(t *testing.T) {
	// given
	ctx := context.Background()

	// when
	tp, err := NewTracerProvider(ctx, "product-test", config.TelemetryConfig{})

	// then
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(ctx) })

	_, span := otel.Tracer("test").Start(ctx, "op")
	defer span.End()
	assert.True(t, span.SpanContext().IsValid(), "spans must carry ids for log correlation")
}

func Test_NewMeterProvider(t *testing.T) {
	// given
	ctx := context.Background()

	// when
	mp, err := NewMeterProvider("product-test")

	// then
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(ctx) })
	counter, err := otel.Meter("test").Int64Counter("test_counter")
	require.NoError(t, err)
	counter.Add(ctx, 2)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	var total float64
	for _, mf := range families {
		if mf.GetName() != "test_counter_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(2), total, "counter must be exported through the default registry")
}
