package bootstrap

import (
	"context"
	"log/slog"

	"github.com/go-authgate/eventgate/internal/config"
	"github.com/go-authgate/eventgate/internal/tracing"
	"github.com/go-authgate/eventgate/internal/version"
)

// initializeTracing installs the tracer provider. Spans are only exported
// when OTEL_EXPORTER_OTLP_ENDPOINT is set.
func initializeTracing(ctx context.Context, cfg *config.Config) (tracing.ShutdownFunc, error) {
	environment := "development"
	if cfg.IsProduction {
		environment = "production"
	}

	shutdown, err := tracing.Setup(ctx, tracing.Config{
		ServiceName: cfg.OTelServiceName,
		Version:     version.String(),
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
		Environment: environment,
	})
	if err != nil {
		return nil, err
	}

	if cfg.OTLPEndpoint != "" {
		slog.Info("tracing enabled", "endpoint", cfg.OTLPEndpoint)
	}
	return shutdown, nil
}
