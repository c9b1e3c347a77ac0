// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

// Protocol defaults. Most of them can be overridden at genesis.
const (
	RewardCycleLength   uint32 = 2100  // blocks per reward cycle.
	ActivationDelay     uint32 = 150   // blocks between reaching the activation threshold and cycle 0.
	ActivationThreshold uint32 = 20    // registered users required to activate.
	TokenRewardMaturity uint32 = 100   // blocks before a mining reward can be claimed.
	BonusPeriodLength   uint32 = 10000 // blocks after activation paying the bonus coinbase.
	HalvingInterval     uint32 = 210000

	MaxLockPeriod uint32 = 32 // max reward cycles tokens can be stacked for.

	StackerPayoutPercent uint64 = 70 // share of mined value earmarked for stackers.

	// V2ScaleFactor converts a legacy (v1) balance into successor (v2) micro units.
	V2ScaleFactor uint64 = 1_000_000

	ApproverCount uint32 = 5
	Quorum        uint32 = 3
)

// Default coinbase amounts, in micro units of the v2 token.
const (
	CoinbaseAmountBonus   uint64 = 250_000 * V2ScaleFactor
	CoinbaseAmount1       uint64 = 100_000 * V2ScaleFactor
	CoinbaseAmount2       uint64 = 50_000 * V2ScaleFactor
	CoinbaseAmount3       uint64 = 25_000 * V2ScaleFactor
	CoinbaseAmount4       uint64 = 12_500 * V2ScaleFactor
	CoinbaseAmount5       uint64 = 6_250 * V2ScaleFactor
	CoinbaseAmountDefault uint64 = 3_125 * V2ScaleFactor
)
