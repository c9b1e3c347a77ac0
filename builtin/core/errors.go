// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package core

import "github.com/citycoins/protocol/builtin/reverts"

var (
	ErrUnauthorized               = reverts.New(1001, "ERR_UNAUTHORIZED")
	ErrUserAlreadyRegistered      = reverts.New(1002, "ERR_USER_ALREADY_REGISTERED")
	ErrUserNotFound               = reverts.New(1003, "ERR_USER_NOT_FOUND")
	ErrActivationThresholdReached = reverts.New(1005, "ERR_ACTIVATION_THRESHOLD_REACHED")
	ErrContractNotActivated       = reverts.New(1006, "ERR_CONTRACT_NOT_ACTIVATED")
	ErrUserAlreadyMined           = reverts.New(1007, "ERR_USER_ALREADY_MINED")
	ErrInsufficientCommitment     = reverts.New(1008, "ERR_INSUFFICIENT_COMMITMENT")
	ErrUserDidNotMineInBlock      = reverts.New(1010, "ERR_USER_DID_NOT_MINE_IN_BLOCK")
	ErrClaimedBeforeMaturity      = reverts.New(1011, "ERR_CLAIMED_BEFORE_MATURITY")
	ErrNoMinersAtBlock            = reverts.New(1012, "ERR_NO_MINERS_AT_BLOCK")
	ErrRewardAlreadyClaimed       = reverts.New(1013, "ERR_REWARD_ALREADY_CLAIMED")
	ErrStackingNotAvailable       = reverts.New(1015, "ERR_STACKING_NOT_AVAILABLE")
	ErrCannotStack                = reverts.New(1016, "ERR_CANNOT_STACK")
	ErrRewardCycleNotCompleted    = reverts.New(1017, "ERR_REWARD_CYCLE_NOT_COMPLETED")
	ErrNothingToRedeem            = reverts.New(1018, "ERR_NOTHING_TO_REDEEM")
	ErrContractDisabled           = reverts.New(1021, "ERR_CONTRACT_DISABLED")
	ErrCoinbaseAmountsNotFound    = reverts.New(1023, "ERR_COINBASE_AMOUNTS_NOT_FOUND")
)
