// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package mining

import (
	"github.com/holiman/uint256"

	"github.com/citycoins/protocol/builtin/solidity"
	"github.com/citycoins/protocol/thor"
)

var (
	slotMiners = thor.BytesToBytes32([]byte("miners-at-block"))
	slotStats  = thor.BytesToBytes32([]byte("mining-stats-at-block"))
)

type minerKey = solidity.PairKey[solidity.Uint32Key, solidity.Uint32Key]

func newMinerKey(height, userID uint32) minerKey {
	return minerKey{First: solidity.Uint32Key(height), Second: solidity.Uint32Key(userID)}
}

// MinerAtBlock is one miner's commit in a block.
type MinerAtBlock struct {
	Ustx    uint64
	Claimed bool
}

// MiningStatsAtBlock aggregates the commits of a block.
type MiningStatsAtBlock struct {
	MinersCount      uint32
	Amount           uint64
	AmountToCity     uint64
	AmountToStackers uint64
}

// Service is the block-indexed mining ledger.
type Service struct {
	miners *solidity.Mapping[minerKey, *MinerAtBlock]
	stats  *solidity.Mapping[solidity.Uint32Key, *MiningStatsAtBlock]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		miners: solidity.NewMapping[minerKey, *MinerAtBlock](sctx, slotMiners),
		stats:  solidity.NewMapping[solidity.Uint32Key, *MiningStatsAtBlock](sctx, slotStats),
	}
}

// GetMinerAtBlock returns nil if the user did not mine at height.
func (s *Service) GetMinerAtBlock(height, userID uint32) (*MinerAtBlock, error) {
	return s.miners.Get(newMinerKey(height, userID))
}

// GetMiningStatsAtBlockOrDefault returns the zero aggregate for blocks without miners.
func (s *Service) GetMiningStatsAtBlockOrDefault(height uint32) (*MiningStatsAtBlock, error) {
	stats, err := s.stats.Get(solidity.Uint32Key(height))
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return &MiningStatsAtBlock{}, nil
	}
	return stats, nil
}

// Record stores a commit. The caller ensures the user has not mined at height yet.
func (s *Service) Record(height, userID uint32, toStackers, toCity uint64) error {
	if err := s.miners.Set(newMinerKey(height, userID), &MinerAtBlock{Ustx: toStackers + toCity}); err != nil {
		return err
	}
	stats, err := s.GetMiningStatsAtBlockOrDefault(height)
	if err != nil {
		return err
	}
	stats.MinersCount++
	stats.Amount += toStackers + toCity
	stats.AmountToStackers += toStackers
	stats.AmountToCity += toCity
	return s.stats.Set(solidity.Uint32Key(height), stats)
}

// MarkClaimed flags the miner's reward at height as paid.
func (s *Service) MarkClaimed(height, userID uint32) error {
	miner, err := s.GetMinerAtBlock(height, userID)
	if err != nil || miner == nil {
		return err
	}
	miner.Claimed = true
	return s.miners.Set(newMinerKey(height, userID), miner)
}

// Share returns floor(coinbase * commit / total), the miner's proportional part of a block's coinbase.
func Share(coinbase, commit, total uint64) uint64 {
	if total == 0 {
		return 0
	}
	num := new(uint256.Int).Mul(uint256.NewInt(coinbase), uint256.NewInt(commit))
	return num.Div(num, uint256.NewInt(total)).Uint64()
}

// Split divides a commit between core custody and the city wallet.
// With stackers in the cycle, ceil(commit * percent / 100) goes to stackers, otherwise nothing.
func Split(commit, percent uint64, hasStackers bool) (toStackers, toCity uint64) {
	if !hasStackers {
		return 0, commit
	}
	num := new(uint256.Int).Mul(uint256.NewInt(commit), uint256.NewInt(percent))
	num.AddUint64(num, 99)
	toStackers = num.Div(num, uint256.NewInt(100)).Uint64()
	if toStackers > commit {
		toStackers = commit
	}
	return toStackers, commit - toStackers
}
