// Copyright 2025 The ephios team
// Licensed under the MIT license

// Package metrics defines the application's custom Prometheus metrics. It
// is the single source of truth for metric names, labels, and help strings.
// All collectors register themselves with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ephios"

// ConsequencesDecidedTotal counts consequence decisions.
// Labels:
//   - slug: the consequence type (e.g. "working_hours")
//   - outcome: "executed", "denied" or "failed"
var ConsequencesDecidedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "consequences_decided_total",
		Help:      "Total number of consequence decisions, labelled by slug and outcome.",
	},
	[]string{"slug", "outcome"},
)

// WorkingHoursRecordedTotal counts hours added to the ledger.
// Label:
//   - origin: "event" or "manual"
var WorkingHoursRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "working_hours_recorded_total",
		Help:      "Total hours recorded, labelled by origin.",
	},
	[]string{"origin"},
)

// QualificationsImportedTotal counts qualifications created or updated by
// fixture imports.
var QualificationsImportedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "qualifications_imported_total",
		Help:      "Total number of qualifications created or updated by imports.",
	},
)
