/*
Copyright 2026 Shane Utt.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package status

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	installv1alpha1 "github.com/networking-incubator/istio-install-api/api/v1alpha1"
)

// Prune reasons reported on the pruned snapshots counter.
const (
	PruneReasonAge      = "age"
	PruneReasonCount    = "count"
	PruneReasonWithdraw = "withdraw"
)

var (
	installsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "istio_install",
			Subsystem: "status",
			Name:      "installs",
			Help:      "Number of installs by the overall status of their latest snapshot",
		},
		[]string{"status"},
	)

	snapshotsRetained = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "istio_install",
			Subsystem: "status",
			Name:      "snapshots_retained",
			Help:      "Number of status snapshots currently retained",
		},
	)

	snapshotsPrunedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "istio_install",
			Subsystem: "status",
			Name:      "snapshots_pruned_total",
			Help:      "Total number of status snapshots removed by reason",
		},
		[]string{"reason"},
	)

	reportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "istio_install",
			Subsystem: "status",
			Name:      "reports_total",
			Help:      "Total number of status reports by overall status",
		},
		[]string{"status"},
	)
)

func init() {
	metrics.Registry.MustRegister(
		installsByStatus,
		snapshotsRetained,
		snapshotsPrunedTotal,
		reportsTotal,
	)
}

// RecordReport counts one accepted status report.
func RecordReport(code installv1alpha1.StatusCode) {
	reportsTotal.WithLabelValues(string(code.OrNone())).Inc()
}

// RecordPruned counts snapshots removed for reason.
func RecordPruned(reason string, count int) {
	if count <= 0 {
		return
	}
	snapshotsPrunedTotal.WithLabelValues(reason).Add(float64(count))
}

// UpdateGauges sets the gauges from the current contents of store. Every
// status code gets a sample, zero included.
func UpdateGauges(store *Store) {
	summary := store.Summary()
	for _, code := range installv1alpha1.StatusCodes {
		installsByStatus.WithLabelValues(string(code)).Set(float64(summary[code]))
	}
	snapshotsRetained.Set(float64(store.TotalEntries()))
}
