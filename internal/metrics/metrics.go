package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BuildsTotal counts schedule builds per channel and outcome ("ok" or the
// failure reason: pool_empty, stalled, busy, catalog, store).
var BuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "castaway_builds_total",
	Help: "Schedule builds by channel and outcome",
}, []string{"channel", "outcome"})

// EntriesCreated counts schedule entries committed per channel.
var EntriesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "castaway_entries_created_total",
	Help: "Schedule entries committed",
}, []string{"channel"})

// TopUpSweeps counts completed top-up scheduler sweeps.
var TopUpSweeps = promauto.NewCounter(prometheus.CounterOpts{
	Name: "castaway_topup_sweeps_total",
	Help: "Completed top-up sweeps over all auto channels",
})

// CoverageHours tracks each auto channel's future schedule coverage, sampled
// on every top-up sweep.
var CoverageHours = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "castaway_coverage_hours",
	Help: "Future schedule coverage in hours",
}, []string{"channel"})

// EntriesPruned counts entries removed by the retention policy.
var EntriesPruned = promauto.NewCounter(prometheus.CounterOpts{
	Name: "castaway_entries_pruned_total",
	Help: "Schedule entries removed by retention pruning",
})
