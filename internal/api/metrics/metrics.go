// Package metrics defines and registers all custom Prometheus metrics for the
// quizm users service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on package init and
// are exposed together with the echo request metrics at GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "quizm"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login credential checks.
// Label:
//   - result: "accepted" or "rejected"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of credential checks, by result.",
	},
	[]string{"result"},
)

// SessionsResolvedTotal counts session cookie resolutions on protected routes.
// Label:
//   - result: "ok", "missing", "invalid" or "unknown_user"
var SessionsResolvedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_resolved_total",
		Help:      "Total number of session token resolutions, by result.",
	},
	[]string{"result"},
)

// ── Record metrics ────────────────────────────────────────────────────────────

// RecordsCreatedTotal counts stored quiz records.
// Label:
//   - named: "true" when the quiz name was resolved, "false" otherwise
var RecordsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_created_total",
		Help:      "Total number of quiz records created.",
	},
	[]string{"named"},
)

// QuizNameLookupsTotal counts quiz name lookups.
// Label:
//   - source: "cache", "remote" or "error"
var QuizNameLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quiz_name_lookups_total",
		Help:      "Total number of quiz name lookups, by where the answer came from.",
	},
	[]string{"source"},
)
