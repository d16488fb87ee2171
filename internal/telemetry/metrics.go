package telemetry

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const metricExportInterval = time.Minute

// InitMetrics installs a global meter provider. Counters are exported to w
// once a minute; a nil writer keeps them in-process only.
func InitMetrics(serviceName, serviceVersion string, w io.Writer) (*sdkmetric.MeterProvider, error) {
	opts := []sdkmetric.Option{
		sdkmetric.WithResource(newResource(serviceName, serviceVersion)),
	}

	if w != nil {
		exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metric exporter: %w", err)
		}
		opts = append(opts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(metricExportInterval)),
		))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)

	return mp, nil
}

func ShutdownMetrics(ctx context.Context, mp *sdkmetric.MeterProvider) error {
	return mp.Shutdown(ctx)
}
