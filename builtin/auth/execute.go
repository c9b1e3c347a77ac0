// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auth

import (
	"fmt"

	"github.com/citycoins/protocol/builtin/coinbase"
	"github.com/citycoins/protocol/thor"
)

// handler names, also the metric label of executed jobs
const (
	HandlerUpgradeCoreContract      = "upgrade-core-contract"
	HandlerUpdateCoinbaseThresholds = "update-coinbase-thresholds"
	HandlerUpdateCoinbaseAmounts    = "update-coinbase-amounts"
	HandlerReplaceApprover          = "replace-approver"
	HandlerSetCityWallet            = "set-city-wallet"
	HandlerSetTokenURI              = "set-token-uri"
)

// argument names read by the handlers
const (
	ArgOldContract   = "oldContract"
	ArgNewContract   = "newContract"
	ArgOldApprover   = "oldApprover"
	ArgNewApprover   = "newApprover"
	ArgNewCityWallet = "newCityWallet"
	ArgAmountBonus   = "amountBonus"
	ArgAmountDefault = "amountDefault"
)

// ArgThreshold returns the argument name of the i-th threshold, 1 based.
func ArgThreshold(i int) string { return fmt.Sprintf("threshold%d", i) }

// ArgAmount returns the argument name of the i-th coinbase amount, 1 based.
func ArgAmount(i int) string { return fmt.Sprintf("amount%d", i) }

// execute runs fn for an approved job and marks it executed. Wrong caller and missing quorum
// both report ErrUnauthorized.
func (a *Auth) execute(jobID uint32, sender, target thor.Address, handler string, fn func() error) error {
	approver, err := a.IsApprover(sender)
	if err != nil {
		return err
	}
	if !approver {
		return ErrUnauthorized
	}
	job, err := a.mustGetJob(jobID)
	if err != nil {
		return err
	}
	if job.Status == JobExecuted {
		return ErrJobIsExecuted
	}
	approved, err := a.IsJobApproved(jobID)
	if err != nil {
		return err
	}
	if !approved {
		return ErrUnauthorized
	}
	if !job.Target.IsZero() && job.Target != target {
		return ErrUnauthorized
	}
	if err := fn(); err != nil {
		return err
	}
	if err := a.transition(jobID, job, TransitionExecute); err != nil {
		return err
	}
	metricJobsExecuted().AddWithLabel(1, map[string]string{"handler": handler})
	logger.Info("job executed", "id", jobID, "handler", handler, "sender", sender)
	return nil
}

// atomic runs fn inside a nested checkpoint, so a failure leaves none of its writes or events behind.
func (a *Auth) atomic(fn func() error) error {
	rev := a.ctx.Checkpoint()
	if err := fn(); err != nil {
		a.ctx.Revert(rev)
		return err
	}
	return nil
}

func (a *Auth) thresholdsArgument(jobID uint32) (coinbase.Thresholds, error) {
	var t coinbase.Thresholds
	for i := range t {
		v, err := a.GetUintValueByName(jobID, ArgThreshold(i+1))
		if err != nil {
			return t, err
		}
		t[i] = v
	}
	return t, nil
}

func (a *Auth) amountsArgument(jobID uint32) (coinbase.Amounts, error) {
	var (
		amounts coinbase.Amounts
		err     error
	)
	fields := []struct {
		name string
		dst  *uint64
	}{
		{ArgAmountBonus, &amounts.Bonus},
		{ArgAmount(1), &amounts.Amount1},
		{ArgAmount(2), &amounts.Amount2},
		{ArgAmount(3), &amounts.Amount3},
		{ArgAmount(4), &amounts.Amount4},
		{ArgAmount(5), &amounts.Amount5},
		{ArgAmountDefault, &amounts.Default},
	}
	for _, f := range fields {
		if *f.dst, err = a.GetUintValueByName(jobID, f.name); err != nil {
			return amounts, err
		}
	}
	return amounts, nil
}

// ExecuteUpgradeCoreContractJob shuts oldCore down and registers newCore.
func (a *Auth) ExecuteUpgradeCoreContractJob(jobID uint32, oldCore, newCore, sender thor.Address) error {
	return a.execute(jobID, sender, oldCore, HandlerUpgradeCoreContract, func() error {
		prev, err := a.GetPrincipalValueByName(jobID, ArgOldContract)
		if err != nil {
			return err
		}
		next, err := a.GetPrincipalValueByName(jobID, ArgNewContract)
		if err != nil {
			return err
		}
		if prev != oldCore || next != newCore {
			return ErrUnauthorized
		}
		return a.upgradeCore(oldCore, newCore)
	})
}

// ExecuteUpdateCoinbaseThresholdsJob writes the thresholds into the token and the core together.
func (a *Auth) ExecuteUpdateCoinbaseThresholdsJob(jobID uint32, core, token, sender thor.Address) error {
	return a.execute(jobID, sender, core, HandlerUpdateCoinbaseThresholds, func() error {
		t, err := a.thresholdsArgument(jobID)
		if err != nil {
			return err
		}
		return a.updateCoinbaseThresholds(core, token, t)
	})
}

// ExecuteUpdateCoinbaseAmountsJob writes the amounts into the token and the core together.
func (a *Auth) ExecuteUpdateCoinbaseAmountsJob(jobID uint32, core, token, sender thor.Address) error {
	return a.execute(jobID, sender, core, HandlerUpdateCoinbaseAmounts, func() error {
		amounts, err := a.amountsArgument(jobID)
		if err != nil {
			return err
		}
		return a.updateCoinbaseAmounts(core, token, amounts)
	})
}

// ExecuteReplaceApproverJob moves an approver slot to a new address. It takes effect for every
// later vote, including votes on jobs that were already active.
func (a *Auth) ExecuteReplaceApproverJob(jobID uint32, sender thor.Address) error {
	return a.execute(jobID, sender, a.Address(), HandlerReplaceApprover, func() error {
		prev, err := a.GetPrincipalValueByName(jobID, ArgOldApprover)
		if err != nil {
			return err
		}
		next, err := a.GetPrincipalValueByName(jobID, ArgNewApprover)
		if err != nil {
			return err
		}
		return a.replaceApprover(prev, next)
	})
}

// ExecuteSetCityWalletJob changes the city wallet of auth and of core.
func (a *Auth) ExecuteSetCityWalletJob(jobID uint32, core, sender thor.Address) error {
	return a.execute(jobID, sender, core, HandlerSetCityWallet, func() error {
		wallet, err := a.GetPrincipalValueByName(jobID, ArgNewCityWallet)
		if err != nil {
			return err
		}
		return a.setCityWallet(core, wallet)
	})
}

// ExecuteSetTokenURIJob sets the token URI, or clears it when uri is nil.
// The quorum approves the action, not the value: the executing approver supplies uri.
func (a *Auth) ExecuteSetTokenURIJob(jobID uint32, token thor.Address, uri *string, sender thor.Address) error {
	return a.execute(jobID, sender, token, HandlerSetTokenURI, func() error {
		tok, err := a.resolveToken(token)
		if err != nil {
			return err
		}
		return tok.SetTokenURI(a.Address(), uri)
	})
}

func (a *Auth) updateCoinbaseThresholds(core, token thor.Address, t coinbase.Thresholds) error {
	c, err := a.resolveCore(core)
	if err != nil {
		return err
	}
	tok, err := a.resolveToken(token)
	if err != nil {
		return err
	}
	return a.atomic(func() error {
		if err := tok.UpdateCoinbaseThresholds(a.Address(), t); err != nil {
			return err
		}
		return c.UpdateCoinbaseThresholds(a.Address())
	})
}

func (a *Auth) updateCoinbaseAmounts(core, token thor.Address, amounts coinbase.Amounts) error {
	c, err := a.resolveCore(core)
	if err != nil {
		return err
	}
	tok, err := a.resolveToken(token)
	if err != nil {
		return err
	}
	return a.atomic(func() error {
		if err := tok.UpdateCoinbaseAmounts(a.Address(), amounts); err != nil {
			return err
		}
		return c.UpdateCoinbaseAmounts(a.Address())
	})
}

func (a *Auth) setCityWallet(core, wallet thor.Address) error {
	c, err := a.resolveCore(core)
	if err != nil {
		return err
	}
	if err := c.SetCityWallet(wallet, a.Address()); err != nil {
		return err
	}
	// retired cores keep their own wallet, the one handed to future cores is unchanged
	info, err := a.GetCoreContractInfo(core)
	if err != nil {
		return err
	}
	if info.State == CoreInactive {
		return nil
	}
	return a.cityWallet.Set(wallet)
}
