// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import "github.com/citycoins/protocol/metrics"

var (
	metricConversions  = metrics.LazyLoadCounter("token_conversions_count")
	metricConvertedV1  = metrics.LazyLoadCounter("token_converted_v1_amount")
	metricCoinbaseSets = metrics.LazyLoadCounterVec("token_coinbase_updates_count", []string{"field"})
)
