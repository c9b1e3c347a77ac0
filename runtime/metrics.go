// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/citycoins/protocol/metrics"

var (
	metricCalls   = metrics.LazyLoadCounterVec("runtime_calls_count", []string{"result"})
	metricEvents  = metrics.LazyLoadCounter("runtime_events_count")
	metricCommits = metrics.LazyLoadCounter("runtime_commits_count")
	metricHead    = metrics.LazyLoadGauge("runtime_head_block")

	metricCacheHitMiss = metrics.LazyLoadGaugeVec("runtime_state_cache_hit_miss_count", []string{"event"})
)
