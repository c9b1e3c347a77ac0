// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/holiman/uint256"

	"github.com/citycoins/protocol/builtin/solidity"
	"github.com/citycoins/protocol/thor"
	"github.com/citycoins/protocol/xenv"
)

var (
	slotBalances = thor.BytesToBytes32([]byte("balances"))
	slotSupply   = thor.BytesToBytes32([]byte("total-supply"))
)

// Ledger is a fungible balance store living at the address of its context.
// The same type backs the native ustx asset, the legacy token and the v2 token.
type Ledger struct {
	ctx      *solidity.Context
	balances *solidity.Mapping[thor.Address, uint64]
	supply   *solidity.Raw[uint64]
}

func NewLedger(ctx *solidity.Context) *Ledger {
	return &Ledger{
		ctx:      ctx,
		balances: solidity.NewMapping[thor.Address, uint64](ctx, slotBalances),
		supply:   solidity.NewRaw[uint64](ctx, slotSupply),
	}
}

func (l *Ledger) Address() thor.Address {
	return l.ctx.Address()
}

func (l *Ledger) Balance(addr thor.Address) (uint64, error) {
	return l.balances.Get(addr)
}

func (l *Ledger) TotalSupply() (uint64, error) {
	return l.supply.Get()
}

// Transfer moves amount from one account to another.
// The balance check precedes any write, so a failed transfer leaves nothing behind.
func (l *Ledger) Transfer(amount uint64, from, to thor.Address, memo *string) error {
	if amount == 0 {
		return ErrNonPositiveAmount
	}
	if from == to {
		return ErrSameSenderRecipient
	}
	fromBal, err := l.balances.Get(from)
	if err != nil {
		return err
	}
	if fromBal < amount {
		return ErrInsufficientBalance
	}
	toBal, err := l.balances.Get(to)
	if err != nil {
		return err
	}
	if err := l.balances.Set(from, fromBal-amount); err != nil {
		return err
	}
	if err := l.balances.Set(to, toBal+amount); err != nil {
		return err
	}
	l.ctx.Emit(&xenv.Event{
		Kind:      xenv.KindTransfer,
		Sender:    from,
		Recipient: to,
		Amount:    amount,
		Memo:      memo,
	})
	return nil
}

// Mint creates amount new tokens owned by to.
func (l *Ledger) Mint(amount uint64, to thor.Address) error {
	if amount == 0 {
		return ErrNonPositiveAmount
	}
	supply, err := l.supply.Get()
	if err != nil {
		return err
	}
	newSupply := new(uint256.Int).Add(uint256.NewInt(supply), uint256.NewInt(amount))
	if !newSupply.IsUint64() {
		return ErrSupplyOverflow
	}
	bal, err := l.balances.Get(to)
	if err != nil {
		return err
	}
	if err := l.supply.Set(newSupply.Uint64()); err != nil {
		return err
	}
	if err := l.balances.Set(to, bal+amount); err != nil {
		return err
	}
	l.ctx.Emit(&xenv.Event{
		Kind:      xenv.KindMint,
		Recipient: to,
		Amount:    amount,
	})
	return nil
}

// Burn destroys amount tokens owned by owner.
func (l *Ledger) Burn(amount uint64, owner thor.Address) error {
	if amount == 0 {
		return ErrNonPositiveAmount
	}
	bal, err := l.balances.Get(owner)
	if err != nil {
		return err
	}
	if bal < amount {
		return ErrInsufficientBalance
	}
	supply, err := l.supply.Get()
	if err != nil {
		return err
	}
	if err := l.balances.Set(owner, bal-amount); err != nil {
		return err
	}
	if err := l.supply.Set(supply - amount); err != nil {
		return err
	}
	l.ctx.Emit(&xenv.Event{
		Kind:   xenv.KindBurn,
		Sender: owner,
		Amount: amount,
	})
	return nil
}
