// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import "github.com/citycoins/protocol/builtin/reverts"

// ledger native errors
var (
	ErrInsufficientBalance = reverts.New(1, "ERR_INSUFFICIENT_BALANCE")
	ErrSameSenderRecipient = reverts.New(2, "ERR_SAME_SENDER_RECIPIENT")
	ErrNonPositiveAmount   = reverts.New(3, "ERR_NON_POSITIVE_AMOUNT")
	ErrSupplyOverflow      = reverts.New(4, "ERR_SUPPLY_OVERFLOW")
)

// city token errors
var (
	ErrUnauthorized              = reverts.New(2000, "ERR_UNAUTHORIZED")
	ErrTokenNotActivated         = reverts.New(2001, "ERR_TOKEN_NOT_ACTIVATED")
	ErrTokenAlreadyActivated     = reverts.New(2002, "ERR_TOKEN_ALREADY_ACTIVATED")
	ErrV1BalanceNotFound         = reverts.New(2003, "ERR_V1_BALANCE_NOT_FOUND")
	ErrInvalidCoinbaseThresholds = reverts.New(2004, "ERR_INVALID_COINBASE_THRESHOLDS")
	ErrInvalidCoinbaseAmounts    = reverts.New(2005, "ERR_INVALID_COINBASE_AMOUNTS")
)
