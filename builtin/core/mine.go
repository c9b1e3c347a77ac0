// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package core

import (
	"github.com/citycoins/protocol/builtin/core/mining"
	"github.com/citycoins/protocol/metrics"
	"github.com/citycoins/protocol/thor"
)

// MineTokens commits amountUstx in the current block. The commit is attributed to the current cycle.
func (c *Core) MineTokens(amountUstx uint64, sender thor.Address, memo *string) error {
	if err := c.requireEnabled(); err != nil {
		return err
	}
	cycle, ok, err := c.currentCycle()
	if err != nil {
		return err
	}
	if !ok {
		return ErrContractNotActivated
	}
	if amountUstx == 0 {
		return ErrInsufficientCommitment
	}
	height := c.ctx.BlockNumber()
	userID, err := c.getOrCreateUserID(sender)
	if err != nil {
		return err
	}
	miner, err := c.mining.GetMinerAtBlock(height, userID)
	if err != nil {
		return err
	}
	if miner != nil {
		return ErrUserAlreadyMined
	}

	stats, err := c.stacking.GetStackingStatsAtCycleOrDefault(cycle)
	if err != nil {
		return err
	}
	toStackers, toCity := mining.Split(amountUstx, uint64(c.payoutPercent.Get()), stats.AmountToken > 0)
	if toStackers > 0 {
		if err := c.ustx.Transfer(toStackers, sender, c.Address(), nil); err != nil {
			return err
		}
	}
	if toCity > 0 {
		wallet, err := c.cityWallet.Get()
		if err != nil {
			return err
		}
		if err := c.ustx.Transfer(toCity, sender, wallet, nil); err != nil {
			return err
		}
	}
	if err := c.mining.Record(height, userID, toStackers, toCity); err != nil {
		return err
	}
	if err := c.stacking.AddRevenue(cycle, amountUstx); err != nil {
		return err
	}
	if memo != nil {
		c.ctx.Print(nil, memo)
	}

	metrics.AddUint64WithLabel(metricMinedUstx(), toStackers, map[string]string{"destination": "stackers"})
	metrics.AddUint64WithLabel(metricMinedUstx(), toCity, map[string]string{"destination": "city"})
	logger.Debug("tokens mined", "user", sender, "height", height, "cycle", cycle, "ustx", amountUstx)
	return nil
}

// ClaimMiningReward mints the sender's share of the coinbase of the block at minerBlockHeight.
func (c *Core) ClaimMiningReward(minerBlockHeight uint32, sender thor.Address) error {
	if err := c.CanClaimMiningReward(sender, minerBlockHeight); err != nil {
		return err
	}
	userID, err := c.userIDs.Get(sender)
	if err != nil {
		return err
	}
	miner, err := c.mining.GetMinerAtBlock(minerBlockHeight, userID)
	if err != nil {
		return err
	}
	stats, err := c.mining.GetMiningStatsAtBlockOrDefault(minerBlockHeight)
	if err != nil {
		return err
	}
	cb, err := c.GetCoinbaseAmount(minerBlockHeight)
	if err != nil {
		return err
	}
	if err := c.mining.MarkClaimed(minerBlockHeight, userID); err != nil {
		return err
	}
	reward := mining.Share(cb, miner.Ustx, stats.Amount)
	if reward > 0 {
		if err := c.token.Mint(reward, sender, c.Address()); err != nil {
			return err
		}
	}

	metricMiningClaims().Add(1)
	logger.Debug("mining reward claimed", "user", sender, "height", minerBlockHeight, "reward", reward)
	return nil
}

// CanClaimMiningReward returns nil if ClaimMiningReward would succeed, otherwise the reason it would fail.
func (c *Core) CanClaimMiningReward(sender thor.Address, minerBlockHeight uint32) error {
	if shutdownHeight, disabled, err := c.GetShutdownHeight(); err != nil {
		return err
	} else if disabled && minerBlockHeight > shutdownHeight {
		return ErrContractDisabled
	}
	if uint64(c.ctx.BlockNumber()) < uint64(minerBlockHeight)+uint64(c.rewardMaturity.Get()) {
		return ErrClaimedBeforeMaturity
	}
	stats, err := c.mining.GetMiningStatsAtBlockOrDefault(minerBlockHeight)
	if err != nil {
		return err
	}
	if stats.MinersCount == 0 {
		return ErrNoMinersAtBlock
	}
	userID, err := c.userIDs.Get(sender)
	if err != nil {
		return err
	}
	if userID == 0 {
		return ErrUserDidNotMineInBlock
	}
	miner, err := c.mining.GetMinerAtBlock(minerBlockHeight, userID)
	if err != nil {
		return err
	}
	if miner == nil {
		return ErrUserDidNotMineInBlock
	}
	if miner.Claimed {
		return ErrRewardAlreadyClaimed
	}
	return nil
}

func (c *Core) GetMinerAtBlock(height, userID uint32) (*mining.MinerAtBlock, error) {
	return c.mining.GetMinerAtBlock(height, userID)
}

func (c *Core) GetMiningStatsAtBlockOrDefault(height uint32) (*mining.MiningStatsAtBlock, error) {
	return c.mining.GetMiningStatsAtBlockOrDefault(height)
}
