// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auth

import "github.com/citycoins/protocol/metrics"

var (
	metricJobTransitions = metrics.LazyLoadCounterVec("job_transitions_count", []string{"transition"})
	metricJobsExecuted   = metrics.LazyLoadCounterVec("jobs_executed_count", []string{"handler"})
)
