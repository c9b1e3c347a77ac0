// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package coinbase holds the token issuance schedule shared by the token and the core contracts.
package coinbase

import (
	"github.com/citycoins/protocol/thor"
)

// Thresholds are the five ascending block heights at which the coinbase amount steps down.
type Thresholds [5]uint64

// Amounts are the per-block coinbase amounts: bonus, amount1..5 and default.
type Amounts struct {
	Bonus   uint64
	Amount1 uint64
	Amount2 uint64
	Amount3 uint64
	Amount4 uint64
	Amount5 uint64
	Default uint64
}

// Valid reports whether every threshold is non-zero and strictly greater than the previous one.
func (t Thresholds) Valid() bool {
	var prev uint64
	for _, v := range t {
		if v == 0 || v <= prev {
			return false
		}
		prev = v
	}
	return true
}

// Slice returns the amounts in schedule order.
func (a Amounts) Slice() []uint64 {
	return []uint64{a.Bonus, a.Amount1, a.Amount2, a.Amount3, a.Amount4, a.Amount5, a.Default}
}

// Valid reports whether every amount is non-zero.
func (a Amounts) Valid() bool {
	for _, v := range a.Slice() {
		if v == 0 {
			return false
		}
	}
	return true
}

// DefaultThresholds derives the schedule from the activation height, one threshold per halving interval.
func DefaultThresholds(activationHeight, halvingInterval uint32) Thresholds {
	var t Thresholds
	for i := range t {
		t[i] = uint64(activationHeight) + uint64(i+1)*uint64(halvingInterval)
	}
	return t
}

// DefaultAmounts returns the compiled-in amounts, already scaled to v2 decimals.
func DefaultAmounts() Amounts {
	return Amounts{
		Bonus:   thor.CoinbaseAmountBonus,
		Amount1: thor.CoinbaseAmount1,
		Amount2: thor.CoinbaseAmount2,
		Amount3: thor.CoinbaseAmount3,
		Amount4: thor.CoinbaseAmount4,
		Amount5: thor.CoinbaseAmount5,
		Default: thor.CoinbaseAmountDefault,
	}
}

// Schedule resolves the coinbase amount of a block.
type Schedule struct {
	ActivationHeight uint32
	BonusPeriod      uint32
	Thresholds       Thresholds
	Amounts          Amounts
}

// AmountAt returns the coinbase for the block at height. Blocks before activation pay nothing.
func (s *Schedule) AmountAt(height uint32) uint64 {
	if height < s.ActivationHeight {
		return 0
	}
	h := uint64(height)
	switch {
	case h < s.Thresholds[0]:
		if h-uint64(s.ActivationHeight) < uint64(s.BonusPeriod) {
			return s.Amounts.Bonus
		}
		return s.Amounts.Amount1
	case h < s.Thresholds[1]:
		return s.Amounts.Amount2
	case h < s.Thresholds[2]:
		return s.Amounts.Amount3
	case h < s.Thresholds[3]:
		return s.Amounts.Amount4
	case h < s.Thresholds[4]:
		return s.Amounts.Amount5
	default:
		return s.Amounts.Default
	}
}
