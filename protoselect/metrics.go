// Copyright 2015 Matthew Holt and The Caddy Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package protoselect

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// define and register the metrics used in this package, mirroring
// caddy's metrics.go: a namespaced, subsystemed metric family created
// once via promauto and referenced through a package-level struct.
var selectMetrics = struct {
	fastHits    prometheus.Counter
	slowHits    prometheus.Counter
	misses      *prometheus.CounterVec
	buildFailed *prometheus.CounterVec
	tableSize   prometheus.Histogram
}{}

func init() {
	const ns = "protoselect"
	const sub = "cache"

	selectMetrics.fastHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: ns,
		Subsystem: sub,
		Name:      "fast_hits_total",
		Help:      "Selections resolved by the single-entry MRU cache.",
	})
	selectMetrics.slowHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: ns,
		Subsystem: sub,
		Name:      "slow_hits_total",
		Help:      "Selections resolved from the hash table without rebuilding.",
	})
	selectMetrics.misses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Subsystem: sub,
		Name:      "misses_total",
		Help:      "Selections that required building a new threshold table.",
	}, []string{"result"})
	selectMetrics.buildFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Subsystem: sub,
		Name:      "build_failures_total",
		Help:      "Threshold table builds that failed, by error kind.",
	}, []string{"kind"})
	selectMetrics.tableSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns,
		Subsystem: sub,
		Name:      "threshold_table_size",
		Help:      "Number of entries in a successfully built threshold table.",
		Buckets:   []float64{1, 2, 3, 4, 6, 8, 12, 16, 32},
	})
}
