// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package core

import "github.com/citycoins/protocol/metrics"

var (
	metricStackActions   = metrics.LazyLoadCounter("stack_actions_count")
	metricStackedTokens  = metrics.LazyLoadCounter("stacked_tokens_count")
	metricMinedUstx      = metrics.LazyLoadCounterVec("mined_ustx_count", []string{"destination"})
	metricMiningClaims   = metrics.LazyLoadCounter("mining_claims_count")
	metricStackingClaims = metrics.LazyLoadCounter("stacking_claims_count")
	metricRegistrations  = metrics.LazyLoadCounter("registered_users_count")
)
