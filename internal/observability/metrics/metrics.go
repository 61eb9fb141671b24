package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	calcRequests     metric.Int64Counter
	calcErrors       metric.Int64Counter
	rateLookupMisses metric.Int64Counter
	rateLimitDenied  metric.Int64Counter
}

// NewProvider configures and registers the meter provider. Disabled
// metrics get a noop provider so instrument calls stay unconditional.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "tajir"
	}
	meter := provider.Meter(name)

	calcRequests, err := meter.Int64Counter("tajir_calc_requests_total")
	if err != nil {
		return nil, err
	}
	calcErrors, err := meter.Int64Counter("tajir_calc_errors_total")
	if err != nil {
		return nil, err
	}
	rateLookupMisses, err := meter.Int64Counter("tajir_rate_lookup_misses_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("tajir_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		calcRequests:     calcRequests,
		calcErrors:       calcErrors,
		rateLookupMisses: rateLookupMisses,
		rateLimitDenied:  rateLimitDenied,
	}, nil
}

// RecordCalculation counts one calculator invocation.
func (m *Metrics) RecordCalculation(ctx context.Context, tool, locale string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("tool", strings.TrimSpace(tool)),
		attribute.String("locale", strings.TrimSpace(locale)),
	)
	m.calcRequests.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCalculationError counts a rejected calculator request.
func (m *Metrics) RecordCalculationError(ctx context.Context, tool, code string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("tool", strings.TrimSpace(tool)),
		attribute.String("code", strings.TrimSpace(code)),
	)
	m.calcErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLookupMiss counts a duty/VAT lookup that found no rate.
// These misses tell the catalog team which corridors to seed next.
func (m *Metrics) RecordRateLookupMiss(ctx context.Context, country string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("country", strings.TrimSpace(country)))
	m.rateLookupMisses.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLimitDenied counts throttled requests.
func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("endpoint", strings.TrimSpace(endpoint)))
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"tool":        {},
	"code":        {},
	"locale":      {},
	"country":     {},
	"endpoint":    {},
	"status_code": {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
