// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"github.com/citycoins/protocol/builtin"
	"github.com/citycoins/protocol/thor"
)

type callFunc func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error)

// coreEntryPoints is implemented by every core version, the retired legacy core included.
type coreEntryPoints interface {
	RegisterUser(sender thor.Address, memo *string) error
	MineTokens(amountUstx uint64, sender thor.Address, memo *string) error
	ClaimMiningReward(minerBlockHeight uint32, sender thor.Address) error
	StackTokens(amount uint64, lockPeriod uint32, sender thor.Address) error
	ClaimStackingReward(targetCycle uint32, sender thor.Address) error
}

// coreFor returns the core named by args, or the active one.
func coreFor(r *replayer, p *builtin.Protocol, a *Args) (coreEntryPoints, error) {
	addr, err := r.principal(a.Core)
	if err != nil {
		return nil, err
	}
	switch {
	case addr.IsZero():
		return p.Core()
	case addr == builtin.LegacyCore.Address:
		return p.LegacyCore(), nil
	default:
		return p.CoreAt(addr), nil
	}
}

func withCore(fn func(c coreEntryPoints, sender thor.Address, a *Args) error) callFunc {
	return func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		c, err := coreFor(r, p, a)
		if err != nil {
			return nil, err
		}
		return nil, fn(c, sender, a)
	}
}

// coreAddr resolves args.Core, defaulting to the active core.
func coreAddr(r *replayer, p *builtin.Protocol, a *Args) (thor.Address, error) {
	if a.Core == "" {
		c, err := p.Core()
		if err != nil {
			return thor.Address{}, err
		}
		return c.Address(), nil
	}
	return r.principal(a.Core)
}

var calls = map[string]callFunc{
	"register-user": withCore(func(c coreEntryPoints, sender thor.Address, a *Args) error {
		return c.RegisterUser(sender, a.Memo)
	}),
	"mine-tokens": withCore(func(c coreEntryPoints, sender thor.Address, a *Args) error {
		return c.MineTokens(a.Amount, sender, a.Memo)
	}),
	"claim-mining-reward": withCore(func(c coreEntryPoints, sender thor.Address, a *Args) error {
		return c.ClaimMiningReward(a.Height, sender)
	}),
	"stack-tokens": withCore(func(c coreEntryPoints, sender thor.Address, a *Args) error {
		return c.StackTokens(a.Amount, a.LockPeriod, sender)
	}),
	"claim-stacking-reward": withCore(func(c coreEntryPoints, sender thor.Address, a *Args) error {
		return c.ClaimStackingReward(a.Cycle, sender)
	}),
	"get-entitled-stacking-reward": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		c, err := p.Core()
		if err != nil {
			return nil, err
		}
		id, err := c.GetUserID(sender)
		if err != nil {
			return nil, err
		}
		return c.GetEntitledStackingReward(id, a.Cycle)
	},

	"transfer": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		to, err := r.principal(a.To)
		if err != nil {
			return nil, err
		}
		return nil, p.Token().Transfer(a.Amount, sender, to, sender, a.Memo)
	},
	"transfer-ustx": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		to, err := r.principal(a.To)
		if err != nil {
			return nil, err
		}
		return nil, p.Ustx().Transfer(a.Amount, sender, to, a.Memo)
	},
	"convert-to-v2": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		return nil, p.Token().ConvertToV2(sender)
	},
	"burn-v1": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		return nil, p.LegacyToken().BurnPassthrough(a.Amount, sender, sender)
	},

	"create-job": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		target, err := r.principal(a.Target)
		if err != nil {
			return nil, err
		}
		return p.Auth().CreateJob(a.Name, target, sender)
	},
	"add-uint-argument": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		return nil, p.Auth().AddUintArgument(a.Job, a.Name, a.Value, sender)
	},
	"add-principal-argument": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		value, err := r.principal(a.Principal)
		if err != nil {
			return nil, err
		}
		return nil, p.Auth().AddPrincipalArgument(a.Job, a.Name, value, sender)
	},
	"activate-job": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		return nil, p.Auth().ActivateJob(a.Job, sender)
	},
	"cancel-job": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		return nil, p.Auth().CancelJob(a.Job, sender)
	},
	"approve-job": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		return nil, p.Auth().ApproveJob(a.Job, sender)
	},
	"disapprove-job": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		return nil, p.Auth().DisapproveJob(a.Job, sender)
	},
	"execute-upgrade-core-contract-job": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		prev, err := coreAddr(r, p, a)
		if err != nil {
			return nil, err
		}
		next, err := r.principal(a.NewCore)
		if err != nil {
			return nil, err
		}
		return nil, p.Auth().ExecuteUpgradeCoreContractJob(a.Job, prev, next, sender)
	},
	"execute-update-coinbase-thresholds-job": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		core, err := coreAddr(r, p, a)
		if err != nil {
			return nil, err
		}
		return nil, p.Auth().ExecuteUpdateCoinbaseThresholdsJob(a.Job, core, builtin.Token.Address, sender)
	},
	"execute-update-coinbase-amounts-job": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		core, err := coreAddr(r, p, a)
		if err != nil {
			return nil, err
		}
		return nil, p.Auth().ExecuteUpdateCoinbaseAmountsJob(a.Job, core, builtin.Token.Address, sender)
	},
	"execute-replace-approver-job": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		return nil, p.Auth().ExecuteReplaceApproverJob(a.Job, sender)
	},
	"execute-set-city-wallet-job": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		core, err := coreAddr(r, p, a)
		if err != nil {
			return nil, err
		}
		return nil, p.Auth().ExecuteSetCityWalletJob(a.Job, core, sender)
	},
	"execute-set-token-uri-job": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		return nil, p.Auth().ExecuteSetTokenURIJob(a.Job, builtin.Token.Address, a.URI, sender)
	},

	"set-city-wallet": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		core, err := coreAddr(r, p, a)
		if err != nil {
			return nil, err
		}
		wallet, err := r.principal(a.Wallet)
		if err != nil {
			return nil, err
		}
		return nil, p.Auth().SetCityWallet(core, wallet, sender)
	},
	"update-coinbase-thresholds": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		core, err := coreAddr(r, p, a)
		if err != nil {
			return nil, err
		}
		t, err := thresholdsArg(a)
		if err != nil {
			return nil, err
		}
		return nil, p.Auth().UpdateCoinbaseThresholds(core, builtin.Token.Address, t, sender)
	},
	"update-coinbase-amounts": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		core, err := coreAddr(r, p, a)
		if err != nil {
			return nil, err
		}
		amounts, err := amountsArg(a)
		if err != nil {
			return nil, err
		}
		return nil, p.Auth().UpdateCoinbaseAmounts(core, builtin.Token.Address, amounts, sender)
	},
	"upgrade-core-contract": func(r *replayer, p *builtin.Protocol, sender thor.Address, a *Args) (any, error) {
		prev, err := coreAddr(r, p, a)
		if err != nil {
			return nil, err
		}
		next, err := r.principal(a.NewCore)
		if err != nil {
			return nil, err
		}
		return nil, p.Auth().UpgradeCoreContract(prev, next, sender)
	},
}
