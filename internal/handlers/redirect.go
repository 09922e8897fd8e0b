package handlers

import (
	"context"
	"log/slog"

	"github.com/go-authgate/eventgate/internal/core"
	"github.com/go-authgate/eventgate/internal/models"
	"github.com/go-authgate/eventgate/internal/redirect"
	"github.com/go-authgate/eventgate/internal/services"
)

// Flow labels for redirect metrics and audit entries.
const (
	flowLogin         = "login"
	flowSignUp        = "signup"
	flowForgot        = "forgot_password"
	flowReset         = "reset_password"
	flowUpdateEmail   = "update_email"
	flowAccountReturn = "account"
)

const maxLoggedCandidate = 200

// RedirectGuard sanitises "return to" values and reports what it saw.
// Rejected candidates are counted, logged and audited; accepted paths that
// redirect.Suspicious flags are counted and logged but still honoured.
type RedirectGuard struct {
	metrics core.Recorder
	audit   *services.AuditService
}

func NewRedirectGuard(metrics core.Recorder, audit *services.AuditService) *RedirectGuard {
	return &RedirectGuard{metrics: metrics, audit: audit}
}

// Target returns the safe path for candidate.
func (g *RedirectGuard) Target(ctx context.Context, flow, candidate string) string {
	outcome := redirect.Classify(candidate)
	g.metrics.RecordRedirect(flow, string(outcome))

	switch outcome {
	case redirect.OutcomeEmpty:
	case redirect.OutcomeAccepted:
		if redirect.Suspicious(candidate) {
			g.metrics.RecordSuspiciousRedirect(flow)
			slog.WarnContext(ctx, "suspicious redirect accepted",
				"flow", flow,
				"candidate", clip(candidate),
			)
		}
	default:
		slog.WarnContext(ctx, "redirect rejected",
			"flow", flow,
			"outcome", outcome,
			"candidate", clip(candidate),
		)
		g.audit.Log(ctx, services.AuditLogEntry{
			EventType:    models.EventRedirectRejected,
			Severity:     models.SeverityWarning,
			ResourceType: models.ResourceRequest,
			ResourceName: flow,
			Action:       "Redirect target rejected",
			Details: models.AuditDetails{
				"outcome":   string(outcome),
				"candidate": clip(candidate),
			},
			Success: false,
		})
	}

	return redirect.Sanitize(candidate)
}

func clip(s string) string {
	if len(s) <= maxLoggedCandidate {
		return s
	}
	return s[:maxLoggedCandidate] + "..."
}
