// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stacking

import (
	"github.com/holiman/uint256"

	"github.com/citycoins/protocol/builtin/solidity"
	"github.com/citycoins/protocol/thor"
)

var (
	slotStackers = thor.BytesToBytes32([]byte("stackers-at-cycle"))
	slotStats    = thor.BytesToBytes32([]byte("stacking-stats-at-cycle"))
	slotClaimed  = thor.BytesToBytes32([]byte("stacking-claimed"))
)

type stackerKey = solidity.PairKey[solidity.Uint32Key, solidity.Uint32Key]

func newStackerKey(cycle, userID uint32) stackerKey {
	return stackerKey{First: solidity.Uint32Key(cycle), Second: solidity.Uint32Key(userID)}
}

// StackerAtCycle is a stacker's position in one reward cycle.
type StackerAtCycle struct {
	AmountStacked uint64
	ToReturn      uint64
}

// StackingStatsAtCycle aggregates one reward cycle.
// AmountToken is the total stacked, AmountUstx the mining revenue of the cycle.
type StackingStatsAtCycle struct {
	AmountUstx  uint64
	AmountToken uint64
}

// Service is the cycle-indexed stacking ledger. Records are sparse and only ever grow.
type Service struct {
	stackers *solidity.Mapping[stackerKey, *StackerAtCycle]
	stats    *solidity.Mapping[solidity.Uint32Key, *StackingStatsAtCycle]
	claimed  *solidity.Mapping[stackerKey, bool]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		stackers: solidity.NewMapping[stackerKey, *StackerAtCycle](sctx, slotStackers),
		stats:    solidity.NewMapping[solidity.Uint32Key, *StackingStatsAtCycle](sctx, slotStats),
		claimed:  solidity.NewMapping[stackerKey, bool](sctx, slotClaimed),
	}
}

// GetStackerAtCycleOrDefault returns the zero record for unknown pairs.
func (s *Service) GetStackerAtCycleOrDefault(cycle, userID uint32) (*StackerAtCycle, error) {
	rec, err := s.stackers.Get(newStackerKey(cycle, userID))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return &StackerAtCycle{}, nil
	}
	return rec, nil
}

// GetStackingStatsAtCycleOrDefault returns the zero aggregate for untouched cycles.
func (s *Service) GetStackingStatsAtCycleOrDefault(cycle uint32) (*StackingStatsAtCycle, error) {
	stats, err := s.stats.Get(solidity.Uint32Key(cycle))
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return &StackingStatsAtCycle{}, nil
	}
	return stats, nil
}

// Stack adds amount to every cycle in [firstCycle, lastCycle] and schedules its return at lastCycle.
func (s *Service) Stack(userID uint32, amount uint64, firstCycle, lastCycle uint32) error {
	for c := uint64(firstCycle); c <= uint64(lastCycle); c++ {
		cycle := uint32(c)
		rec, err := s.GetStackerAtCycleOrDefault(cycle, userID)
		if err != nil {
			return err
		}
		rec.AmountStacked += amount
		if cycle == lastCycle {
			rec.ToReturn += amount
		}
		if err := s.stackers.Set(newStackerKey(cycle, userID), rec); err != nil {
			return err
		}

		stats, err := s.GetStackingStatsAtCycleOrDefault(cycle)
		if err != nil {
			return err
		}
		stats.AmountToken += amount
		if err := s.stats.Set(solidity.Uint32Key(cycle), stats); err != nil {
			return err
		}
	}
	return nil
}

// AddRevenue records mined ustx into a cycle.
func (s *Service) AddRevenue(cycle uint32, ustx uint64) error {
	stats, err := s.GetStackingStatsAtCycleOrDefault(cycle)
	if err != nil {
		return err
	}
	stats.AmountUstx += ustx
	return s.stats.Set(solidity.Uint32Key(cycle), stats)
}

// GetEntitledStackingReward returns the stacker's share of the cycle revenue. It never fails on missing data.
func (s *Service) GetEntitledStackingReward(userID, cycle uint32, payoutPercent uint64) (uint64, error) {
	stats, err := s.GetStackingStatsAtCycleOrDefault(cycle)
	if err != nil {
		return 0, err
	}
	rec, err := s.GetStackerAtCycleOrDefault(cycle, userID)
	if err != nil {
		return 0, err
	}
	return Reward(stats.AmountUstx, payoutPercent, rec.AmountStacked, stats.AmountToken), nil
}

func (s *Service) IsClaimed(userID, cycle uint32) (bool, error) {
	return s.claimed.Get(newStackerKey(cycle, userID))
}

func (s *Service) MarkClaimed(userID, cycle uint32) error {
	return s.claimed.Set(newStackerKey(cycle, userID), true)
}

// Reward computes floor(revenue * percent * stacked / (100 * total)) without intermediate overflow.
// It is zero when nothing is stacked in the cycle.
func Reward(revenue, percent, stacked, total uint64) uint64 {
	if total == 0 || stacked == 0 {
		return 0
	}
	num := new(uint256.Int).Mul(uint256.NewInt(revenue), uint256.NewInt(percent))
	num.Mul(num, uint256.NewInt(stacked))
	den := new(uint256.Int).Mul(uint256.NewInt(100), uint256.NewInt(total))
	return num.Div(num, den).Uint64()
}
