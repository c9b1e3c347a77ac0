// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auth

import (
	"github.com/citycoins/protocol/builtin/coinbase"
	"github.com/citycoins/protocol/thor"
)

// The city wallet may apply these changes directly, without a job.

func (a *Auth) SetCityWallet(core, wallet, sender thor.Address) error {
	if err := a.requireCityWallet(sender); err != nil {
		return err
	}
	return a.setCityWallet(core, wallet)
}

func (a *Auth) UpdateCoinbaseThresholds(core, token thor.Address, t coinbase.Thresholds, sender thor.Address) error {
	if err := a.requireCityWallet(sender); err != nil {
		return err
	}
	return a.updateCoinbaseThresholds(core, token, t)
}

func (a *Auth) UpdateCoinbaseAmounts(core, token thor.Address, amounts coinbase.Amounts, sender thor.Address) error {
	if err := a.requireCityWallet(sender); err != nil {
		return err
	}
	return a.updateCoinbaseAmounts(core, token, amounts)
}

func (a *Auth) UpgradeCoreContract(oldCore, newCore, sender thor.Address) error {
	if err := a.requireCityWallet(sender); err != nil {
		return err
	}
	return a.upgradeCore(oldCore, newCore)
}
