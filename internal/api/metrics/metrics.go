// Package metrics defines and registers all custom Prometheus metrics for the
// identity service. It is the single source of truth for metric names, labels,
// and help strings. Metrics are registered with the default registry at import
// time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// LoginsTotal counts successful authentications.
// Label:
//   - method: "password" or the provider name ("google", "github")
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful logins, by method.",
	},
	[]string{"method"},
)

// AuthFailuresTotal counts failed authentication attempts.
// Label:
//   - reason: "invalid_credentials", "email_not_verified", "rate_limited"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of failed login attempts, by reason.",
	},
	[]string{"reason"},
)

// OAuthCallbacksTotal counts completed OAuth callback legs.
// Labels:
//   - provider: "google", "github"
//   - outcome: "success" or the redirect reason code on failure
var OAuthCallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oauth_callbacks_total",
		Help:      "Total number of OAuth callbacks handled, by provider and outcome.",
	},
	[]string{"provider", "outcome"},
)

// MailDeliveriesTotal counts asynchronous mail deliveries.
// Label:
//   - result: "sent" or "failed"
var MailDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_deliveries_total",
		Help:      "Total number of background mail deliveries, by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts minted bearer tokens.
// Label:
//   - class: "access", "refresh", "single_use"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued, by class.",
	},
	[]string{"class"},
)
