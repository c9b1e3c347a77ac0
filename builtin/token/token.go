// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/holiman/uint256"

	"github.com/citycoins/protocol/builtin/coinbase"
	"github.com/citycoins/protocol/builtin/solidity"
	"github.com/citycoins/protocol/log"
	"github.com/citycoins/protocol/metrics"
	"github.com/citycoins/protocol/thor"
	"github.com/citycoins/protocol/xenv"
)

var logger = log.WithContext("pkg", "token")

var (
	slotActivated        = thor.BytesToBytes32([]byte("token-activated"))
	slotActivationHeight = thor.BytesToBytes32([]byte("token-activation-height"))
	slotThresholds       = thor.BytesToBytes32([]byte("coinbase-thresholds"))
	slotAmounts          = thor.BytesToBytes32([]byte("coinbase-amounts"))
	slotMetadata         = thor.BytesToBytes32([]byte("metadata"))
)

// CoreRegistry tells whether an address is a core contract allowed to activate and mint.
type CoreRegistry interface {
	IsApprovedCoreContract(addr thor.Address) (bool, error)
}

// Metadata describes the token.
type Metadata struct {
	Name     string
	Symbol   string
	Decimals uint8
	URI      string
}

// Token is the v2 city token. Its balances live in an embedded Ledger at the token address.
type Token struct {
	*Ledger

	ctx      *solidity.Context
	legacy   *Ledger
	registry CoreRegistry
	authAddr thor.Address

	activated        *solidity.Raw[bool]
	activationHeight *solidity.Raw[uint32]
	thresholds       *solidity.Raw[*coinbase.Thresholds]
	amounts          *solidity.Raw[*coinbase.Amounts]
	metadata         *solidity.Raw[*Metadata]

	bonusPeriod     *solidity.ConfigVariable
	halvingInterval *solidity.ConfigVariable
	scaleFactor     *solidity.ConfigVariable
}

// New creates the token binder. legacy is the ledger of the superseded token that ConvertToV2 burns from.
func New(ctx *solidity.Context, legacy *Ledger, registry CoreRegistry, authAddr thor.Address) *Token {
	t := &Token{
		Ledger:           NewLedger(ctx),
		ctx:              ctx,
		legacy:           legacy,
		registry:         registry,
		authAddr:         authAddr,
		activated:        solidity.NewRaw[bool](ctx, slotActivated),
		activationHeight: solidity.NewRaw[uint32](ctx, slotActivationHeight),
		thresholds:       solidity.NewRaw[*coinbase.Thresholds](ctx, slotThresholds),
		amounts:          solidity.NewRaw[*coinbase.Amounts](ctx, slotAmounts),
		metadata:         solidity.NewRaw[*Metadata](ctx, slotMetadata),
		bonusPeriod:      solidity.NewConfigVariable("token-bonus-period", thor.BonusPeriodLength),
		halvingInterval:  solidity.NewConfigVariable("token-halving-interval", thor.HalvingInterval),
		scaleFactor:      solidity.NewConfigVariable("token-v2-scale-factor", uint32(thor.V2ScaleFactor)),
	}
	t.bonusPeriod.Override(ctx)
	t.halvingInterval.Override(ctx)
	t.scaleFactor.Override(ctx)
	return t
}

// Configure stores schedule parameters. Only used when building genesis.
func (t *Token) Configure(bonusPeriod, halvingInterval, scaleFactor uint32) {
	if bonusPeriod != 0 {
		t.bonusPeriod.Store(t.ctx, bonusPeriod)
	}
	if halvingInterval != 0 {
		t.halvingInterval.Store(t.ctx, halvingInterval)
	}
	if scaleFactor != 0 {
		t.scaleFactor.Store(t.ctx, scaleFactor)
	}
}

// Initialize sets the token metadata. Only used when building genesis.
func (t *Token) Initialize(meta *Metadata) error {
	return t.metadata.Set(meta)
}

func (t *Token) isApprovedCore(addr thor.Address) error {
	ok, err := t.registry.IsApprovedCoreContract(addr)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

func (t *Token) requireActivated() error {
	activated, err := t.activated.Get()
	if err != nil {
		return err
	}
	if !activated {
		return ErrTokenNotActivated
	}
	return nil
}

// Activate starts the coinbase schedule at height. It is called once by the first core to activate.
func (t *Token) Activate(caller thor.Address, height uint32) error {
	if err := t.isApprovedCore(caller); err != nil {
		return err
	}
	activated, err := t.activated.Get()
	if err != nil {
		return err
	}
	if activated {
		return ErrTokenAlreadyActivated
	}
	if err := t.activated.Set(true); err != nil {
		return err
	}
	if err := t.activationHeight.Set(height); err != nil {
		return err
	}
	thresholds := coinbase.DefaultThresholds(height, t.halvingInterval.Get())
	if err := t.thresholds.Set(&thresholds); err != nil {
		return err
	}
	amounts := coinbase.DefaultAmounts()
	if err := t.amounts.Set(&amounts); err != nil {
		return err
	}
	logger.Debug("token activated", "core", caller, "height", height)
	return nil
}

func (t *Token) IsActivated() (bool, error) {
	return t.activated.Get()
}

func (t *Token) GetActivationHeight() (uint32, error) {
	if err := t.requireActivated(); err != nil {
		return 0, err
	}
	return t.activationHeight.Get()
}

func (t *Token) BonusPeriod() uint32 {
	return t.bonusPeriod.Get()
}

func (t *Token) GetCoinbaseThresholds() (coinbase.Thresholds, error) {
	if err := t.requireActivated(); err != nil {
		return coinbase.Thresholds{}, err
	}
	th, err := t.thresholds.Get()
	if err != nil || th == nil {
		return coinbase.Thresholds{}, err
	}
	return *th, nil
}

func (t *Token) GetCoinbaseAmounts() (coinbase.Amounts, error) {
	if err := t.requireActivated(); err != nil {
		return coinbase.Amounts{}, err
	}
	a, err := t.amounts.Get()
	if err != nil || a == nil {
		return coinbase.Amounts{}, err
	}
	return *a, nil
}

// UpdateCoinbaseThresholds replaces the thresholds. Only the auth contract may call it.
func (t *Token) UpdateCoinbaseThresholds(caller thor.Address, thresholds coinbase.Thresholds) error {
	if caller != t.authAddr {
		return ErrUnauthorized
	}
	if err := t.requireActivated(); err != nil {
		return err
	}
	if !thresholds.Valid() {
		return ErrInvalidCoinbaseThresholds
	}
	if err := t.thresholds.Set(&thresholds); err != nil {
		return err
	}
	metricCoinbaseSets().AddWithLabel(1, map[string]string{"field": "thresholds"})
	return nil
}

// UpdateCoinbaseAmounts replaces the amounts. Only the auth contract may call it.
func (t *Token) UpdateCoinbaseAmounts(caller thor.Address, amounts coinbase.Amounts) error {
	if caller != t.authAddr {
		return ErrUnauthorized
	}
	if err := t.requireActivated(); err != nil {
		return err
	}
	if !amounts.Valid() {
		return ErrInvalidCoinbaseAmounts
	}
	if err := t.amounts.Set(&amounts); err != nil {
		return err
	}
	metricCoinbaseSets().AddWithLabel(1, map[string]string{"field": "amounts"})
	return nil
}

// SetTokenURI sets the metadata URI, or clears it when uri is nil. Only the auth contract may call it.
func (t *Token) SetTokenURI(caller thor.Address, uri *string) error {
	if caller != t.authAddr {
		return ErrUnauthorized
	}
	meta, err := t.metadata.Get()
	if err != nil {
		return err
	}
	if meta == nil {
		meta = &Metadata{}
	}
	meta.URI = ""
	if uri != nil {
		meta.URI = *uri
	}
	return t.metadata.Set(meta)
}

func (t *Token) getMetadata() (*Metadata, error) {
	meta, err := t.metadata.Get()
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return &Metadata{}, nil
	}
	return meta, nil
}

func (t *Token) GetName() (string, error) {
	meta, err := t.getMetadata()
	if err != nil {
		return "", err
	}
	return meta.Name, nil
}

func (t *Token) GetSymbol() (string, error) {
	meta, err := t.getMetadata()
	if err != nil {
		return "", err
	}
	return meta.Symbol, nil
}

func (t *Token) GetDecimals() (uint8, error) {
	meta, err := t.getMetadata()
	if err != nil {
		return 0, err
	}
	return meta.Decimals, nil
}

// GetTokenURI returns nil when no URI is set.
func (t *Token) GetTokenURI() (*string, error) {
	meta, err := t.getMetadata()
	if err != nil {
		return nil, err
	}
	if meta.URI == "" {
		return nil, nil
	}
	uri := meta.URI
	return &uri, nil
}

// Mint issues new tokens. Only an approved core contract may call it.
func (t *Token) Mint(amount uint64, to, caller thor.Address) error {
	if err := t.isApprovedCore(caller); err != nil {
		return err
	}
	return t.Ledger.Mint(amount, to)
}

// Burn destroys tokens of owner, who must be the sender.
func (t *Token) Burn(amount uint64, owner, sender thor.Address) error {
	if sender != owner {
		return ErrUnauthorized
	}
	return t.Ledger.Burn(amount, owner)
}

// Transfer moves tokens out of from, who must be the sender.
func (t *Token) Transfer(amount uint64, from, to, sender thor.Address, memo *string) error {
	if sender != from {
		return ErrUnauthorized
	}
	return t.Ledger.Transfer(amount, from, to, memo)
}

// ConvertToV2 burns the sender's entire legacy balance and mints the scaled amount of v2 tokens.
func (t *Token) ConvertToV2(sender thor.Address) error {
	v1, err := t.legacy.Balance(sender)
	if err != nil {
		return err
	}
	if v1 == 0 {
		return ErrV1BalanceNotFound
	}
	v2 := new(uint256.Int).Mul(uint256.NewInt(v1), uint256.NewInt(uint64(t.scaleFactor.Get())))
	if !v2.IsUint64() {
		return ErrSupplyOverflow
	}
	if err := t.legacy.Burn(v1, sender); err != nil {
		return err
	}
	if err := t.Ledger.Mint(v2.Uint64(), sender); err != nil {
		return err
	}
	t.ctx.Print(&xenv.ConversionNotice{BurnedV1: v1, MintedV2: v2.Uint64()}, nil)

	metricConversions().Add(1)
	metrics.AddUint64(metricConvertedV1(), v1)
	logger.Debug("converted legacy balance", "owner", sender, "burnedV1", v1, "mintedV2", v2.Uint64())
	return nil
}
