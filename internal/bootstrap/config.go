package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/go-authgate/eventgate/internal/config"
)

// validateAllConfiguration rejects invalid settings and warns about ones that
// are legal but likely wrong for the environment.
func validateAllConfiguration(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for _, warning := range configurationWarnings(cfg) {
		slog.Warn(warning)
	}
	return nil
}

func configurationWarnings(cfg *config.Config) []string {
	var warnings []string
	if cfg.IsProduction && cfg.BaseURLSource == "fallback" {
		warnings = append(warnings, fmt.Sprintf(
			"no SITE_URL or DEPLOYMENT_URL set; emailed links will point at %s", cfg.BaseURL))
	}
	if cfg.MetricsEnabled && cfg.MetricsToken == "" && cfg.IsProduction {
		warnings = append(warnings, "/metrics is enabled without METRICS_TOKEN")
	}
	if cfg.EnableRateLimit && cfg.RateLimitStore == config.RateLimitStoreMemory && cfg.IsProduction {
		warnings = append(warnings,
			"in-memory rate limiting only protects a single instance; use RATE_LIMIT_STORE=redis")
	}
	return warnings
}
