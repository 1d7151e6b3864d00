// Package metrics defines and registers the domain Prometheus metrics of the
// notes API. Per-route request count and latency come from the echoprometheus
// middleware wired in the router, under the same namespace.
//
// Metrics register with the default Prometheus registry on package init and
// are exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "notes"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "rejected" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthFailuresTotal counts requests rejected by the authorization pipeline.
// Label:
//   - reason: "missing_token", "invalid_token", "invalid_tenant", "forbidden_role", "quota_exceeded"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_pipeline_rejections_total",
		Help:      "Total number of requests rejected by an authorization stage.",
	},
	[]string{"reason"},
)

// ── Note metrics ──────────────────────────────────────────────────────────────

// NotesCreatedTotal counts created notes.
// Label:
//   - plan: the tenant's plan at creation time ("Free" or "Pro")
var NotesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notes_created_total",
		Help:      "Total number of notes created, by tenant plan.",
	},
	[]string{"plan"},
)

// NotesDeletedTotal counts deleted notes.
var NotesDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notes_deleted_total",
		Help:      "Total number of notes deleted.",
	},
)

// PlanChangesTotal counts effective plan transitions.
// Label:
//   - plan: the plan the tenant moved to
var PlanChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plan_changes_total",
		Help:      "Total number of tenant plan changes, by target plan.",
	},
	[]string{"plan"},
)
