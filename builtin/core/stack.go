// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package core

import (
	"math"

	"github.com/citycoins/protocol/builtin/core/stacking"
	"github.com/citycoins/protocol/metrics"
	"github.com/citycoins/protocol/thor"
	"github.com/citycoins/protocol/xenv"
)

// StackTokens locks amount city tokens in core custody for lockPeriod cycles starting with the next one.
func (c *Core) StackTokens(amount uint64, lockPeriod uint32, sender thor.Address) error {
	if err := c.requireEnabled(); err != nil {
		return err
	}
	cycle, ok, err := c.currentCycle()
	if err != nil {
		return err
	}
	if !ok {
		return ErrStackingNotAvailable
	}
	if amount == 0 || lockPeriod == 0 || lockPeriod > thor.MaxLockPeriod {
		return ErrCannotStack
	}
	// the lock must end within the cycle range
	if uint64(cycle)+uint64(lockPeriod) > math.MaxUint32 {
		return ErrCannotStack
	}
	firstCycle := cycle + 1
	lastCycle := cycle + lockPeriod

	if err := c.token.Transfer(amount, sender, c.Address(), sender, nil); err != nil {
		return err
	}
	userID, err := c.getOrCreateUserID(sender)
	if err != nil {
		return err
	}

	if err := c.stacking.Stack(userID, amount, firstCycle, lastCycle); err != nil {
		return err
	}
	c.ctx.Print(&xenv.StackingNotice{FirstCycle: firstCycle, LastCycle: lastCycle}, nil)

	metricStackActions().Add(1)
	metrics.AddUint64(metricStackedTokens(), amount)
	logger.Debug("tokens stacked", "user", sender, "amount", amount, "firstCycle", firstCycle, "lastCycle", lastCycle)
	return nil
}

// ClaimStackingReward pays the sender's ustx reward for targetCycle and returns the tokens unlocking at it.
// Once the core is shut down any cycle may be claimed, so locked tokens can always be recovered.
func (c *Core) ClaimStackingReward(targetCycle uint32, sender thor.Address) error {
	disabled, err := c.IsShutdown()
	if err != nil {
		return err
	}
	if !disabled {
		cycle, ok, err := c.currentCycle()
		if err != nil {
			return err
		}
		if !ok || cycle <= targetCycle {
			return ErrRewardCycleNotCompleted
		}
	}
	userID, err := c.userIDs.Get(sender)
	if err != nil {
		return err
	}
	if userID == 0 {
		return ErrUserNotFound
	}
	claimed, err := c.stacking.IsClaimed(userID, targetCycle)
	if err != nil {
		return err
	}
	if claimed {
		return ErrNothingToRedeem
	}
	reward, err := c.GetEntitledStackingReward(userID, targetCycle)
	if err != nil {
		return err
	}
	rec, err := c.stacking.GetStackerAtCycleOrDefault(targetCycle, userID)
	if err != nil {
		return err
	}
	if reward == 0 && rec.ToReturn == 0 {
		return ErrNothingToRedeem
	}
	if err := c.stacking.MarkClaimed(userID, targetCycle); err != nil {
		return err
	}
	if reward > 0 {
		if err := c.ustx.Transfer(reward, c.Address(), sender, nil); err != nil {
			return err
		}
	}
	if rec.ToReturn > 0 {
		if err := c.token.Transfer(rec.ToReturn, c.Address(), sender, c.Address(), nil); err != nil {
			return err
		}
	}

	metricStackingClaims().Add(1)
	logger.Debug("stacking reward claimed", "user", sender, "cycle", targetCycle, "reward", reward, "returned", rec.ToReturn)
	return nil
}

// GetEntitledStackingReward returns the stacker's reward for cycle, 0 when nothing was stacked.
func (c *Core) GetEntitledStackingReward(userID, cycle uint32) (uint64, error) {
	return c.stacking.GetEntitledStackingReward(userID, cycle, uint64(c.payoutPercent.Get()))
}

func (c *Core) GetStackerAtCycleOrDefault(cycle, userID uint32) (*stacking.StackerAtCycle, error) {
	return c.stacking.GetStackerAtCycleOrDefault(cycle, userID)
}

func (c *Core) GetStackingStatsAtCycleOrDefault(cycle uint32) (*stacking.StackingStatsAtCycle, error) {
	return c.stacking.GetStackingStatsAtCycleOrDefault(cycle)
}

// IsStackingRewardClaimed reports whether the user already claimed cycle.
func (c *Core) IsStackingRewardClaimed(userID, cycle uint32) (bool, error) {
	return c.stacking.IsClaimed(userID, cycle)
}
