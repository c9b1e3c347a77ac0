// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bridge keeps the superseded contracts callable after the migration to v2.
// The legacy core rejects every mutating entry point except a single city wallet change,
// and the legacy token only lets holders burn or move their balance.
package bridge

import (
	"github.com/citycoins/protocol/builtin/reverts"
	"github.com/citycoins/protocol/builtin/solidity"
	"github.com/citycoins/protocol/builtin/token"
	"github.com/citycoins/protocol/log"
	"github.com/citycoins/protocol/thor"
)

var logger = log.WithContext("pkg", "bridge")

// legacy core errors
var (
	ErrUnauthorized     = reverts.New(1001, "ERR_UNAUTHORIZED")
	ErrContractDisabled = reverts.New(1021, "ERR_CONTRACT_DISABLED")
)

var (
	slotCityWallet      = thor.BytesToBytes32([]byte("city-wallet"))
	slotCityWalletLatch = thor.BytesToBytes32([]byte("city-wallet-latch"))
)

// LegacyCore is the superseded core contract.
type LegacyCore struct {
	ctx        *solidity.Context
	authAddr   thor.Address
	cityWallet *solidity.Raw[thor.Address]
	latch      *solidity.Raw[bool]
}

func NewLegacyCore(ctx *solidity.Context, authAddr thor.Address) *LegacyCore {
	return &LegacyCore{
		ctx:        ctx,
		authAddr:   authAddr,
		cityWallet: solidity.NewRaw[thor.Address](ctx, slotCityWallet),
		latch:      solidity.NewRaw[bool](ctx, slotCityWalletLatch),
	}
}

func (c *LegacyCore) Address() thor.Address {
	return c.ctx.Address()
}

// Initialize sets the wallet the legacy core was left with. Only used when building genesis.
func (c *LegacyCore) Initialize(cityWallet thor.Address) error {
	return c.cityWallet.Set(cityWallet)
}

func (c *LegacyCore) RegisterUser(sender thor.Address, memo *string) error {
	return ErrContractDisabled
}

func (c *LegacyCore) MineTokens(amountUstx uint64, sender thor.Address, memo *string) error {
	return ErrContractDisabled
}

func (c *LegacyCore) ClaimMiningReward(minerBlockHeight uint32, sender thor.Address) error {
	return ErrContractDisabled
}

func (c *LegacyCore) StackTokens(amount uint64, lockPeriod uint32, sender thor.Address) error {
	return ErrContractDisabled
}

func (c *LegacyCore) ClaimStackingReward(targetCycle uint32, sender thor.Address) error {
	return ErrContractDisabled
}

// SetCityWallet succeeds once, for the auth contract only. Every later call is rejected.
func (c *LegacyCore) SetCityWallet(wallet, caller thor.Address) error {
	if caller != c.authAddr {
		return ErrUnauthorized
	}
	latched, err := c.latch.Get()
	if err != nil {
		return err
	}
	if latched {
		return ErrContractDisabled
	}
	if err := c.cityWallet.Set(wallet); err != nil {
		return err
	}
	if err := c.latch.Set(true); err != nil {
		return err
	}
	logger.Info("legacy city wallet updated", "core", c.Address(), "wallet", wallet)
	return nil
}

func (c *LegacyCore) GetCityWallet() (thor.Address, error) {
	return c.cityWallet.Get()
}

func (c *LegacyCore) UpdateCoinbaseThresholds(caller thor.Address) error {
	return ErrContractDisabled
}

func (c *LegacyCore) UpdateCoinbaseAmounts(caller thor.Address) error {
	return ErrContractDisabled
}

func (c *LegacyCore) ShutdownContract(height uint32, caller thor.Address) error {
	return ErrContractDisabled
}

// LegacyToken is the superseded token. Its balances can only leave through a burn or a transfer.
type LegacyToken struct {
	*token.Ledger
}

func NewLegacyToken(ledger *token.Ledger) *LegacyToken {
	return &LegacyToken{Ledger: ledger}
}

// BurnPassthrough burns amount of owner's balance. The ledger's own errors surface unchanged.
func (t *LegacyToken) BurnPassthrough(amount uint64, owner, sender thor.Address) error {
	if sender != owner {
		return token.ErrUnauthorized
	}
	return t.Ledger.Burn(amount, owner)
}

func (t *LegacyToken) Transfer(amount uint64, from, to, sender thor.Address, memo *string) error {
	if sender != from {
		return token.ErrUnauthorized
	}
	return t.Ledger.Transfer(amount, from, to, memo)
}

func (t *LegacyToken) GetBalance(addr thor.Address) (uint64, error) {
	return t.Ledger.Balance(addr)
}
