// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics exposes the engine's Prometheus counters: rows
// inserted, classes allocated, merges performed, and rebuild/corebuild
// fixed-point iterations. `eqsat serve --metrics-addr` is the only
// consumer: it registers these metrics and serves them over /metrics.
// pkg/egraph never imports this package (spec.md's hard core stays free of
// ambient-stack dependencies), and no code in this module increments or
// observes them, so they are always reported at zero.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every counter/histogram eqsat reports. Construct one
// per process with NewRegistry and register it with promhttp.Handler.
type Registry struct {
	RowsInserted      *prometheus.CounterVec
	ClassesAllocated  prometheus.Counter
	MergesPerformed   prometheus.Counter
	RebuildIterations prometheus.Histogram
	CorebuildRounds   prometheus.Histogram
}

// NewRegistry constructs and registers eqsat's metrics against reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)
	return &Registry{
		RowsInserted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eqsat",
			Name:      "rows_inserted_total",
			Help:      "Functional-dependency rows inserted, by term kind.",
		}, []string{"kind"}),
		ClassesAllocated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "eqsat",
			Name:      "classes_allocated_total",
			Help:      "Union-find classes allocated via MakeSet.",
		}),
		MergesPerformed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "eqsat",
			Name:      "merges_performed_total",
			Help:      "Union-find merges performed.",
		}),
		RebuildIterations: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "eqsat",
			Name:      "rebuild_iterations",
			Help:      "Number of outer Rebuild iterations to reach a fixed point.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		CorebuildRounds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "eqsat",
			Name:      "corebuild_rounds",
			Help:      "Number of signature-refinement rounds Corebuild ran before converging.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
	}
}
