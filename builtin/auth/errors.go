// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auth

import "github.com/citycoins/protocol/builtin/reverts"

var (
	ErrUnknownJob             = reverts.New(6000, "ERR_UNKNOWN_JOB")
	ErrUnauthorized           = reverts.New(6001, "ERR_UNAUTHORIZED")
	ErrJobIsActive            = reverts.New(6002, "ERR_JOB_IS_ACTIVE")
	ErrJobIsNotActive         = reverts.New(6003, "ERR_JOB_IS_NOT_ACTIVE")
	ErrJobIsExecuted          = reverts.New(6005, "ERR_JOB_IS_EXECUTED")
	ErrArgumentAlreadyExists  = reverts.New(6007, "ERR_ARGUMENT_ALREADY_EXISTS")
	ErrCoreContractNotFound   = reverts.New(6009, "ERR_CORE_CONTRACT_NOT_FOUND")
	ErrUnknownArgument        = reverts.New(6010, "ERR_UNKNOWN_ARGUMENT")
	ErrIncorrectContractState = reverts.New(6011, "ERR_INCORRECT_CONTRACT_STATE")
	ErrContractAlreadyExists  = reverts.New(6012, "ERR_CONTRACT_ALREADY_EXISTS")
)
