// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package core

import (
	"errors"

	"github.com/citycoins/protocol/builtin/coinbase"
	"github.com/citycoins/protocol/builtin/core/mining"
	"github.com/citycoins/protocol/builtin/core/stacking"
	"github.com/citycoins/protocol/builtin/solidity"
	"github.com/citycoins/protocol/builtin/token"
	"github.com/citycoins/protocol/log"
	"github.com/citycoins/protocol/thor"
)

var logger = log.WithContext("pkg", "core")

var (
	slotUserIDs          = thor.BytesToBytes32([]byte("user-ids"))
	slotUsers            = thor.BytesToBytes32([]byte("users"))
	slotUsersNonce       = thor.BytesToBytes32([]byte("users-nonce"))
	slotActivated        = thor.BytesToBytes32([]byte("activation-reached"))
	slotActivationHeight = thor.BytesToBytes32([]byte("activation-height"))
	slotCityWallet       = thor.BytesToBytes32([]byte("city-wallet"))
	slotShutdown         = thor.BytesToBytes32([]byte("shutdown"))
	slotThresholds       = thor.BytesToBytes32([]byte("coinbase-thresholds"))
	slotAmounts          = thor.BytesToBytes32([]byte("coinbase-amounts"))
)

// Registry records core contract activation with the auth contract.
type Registry interface {
	ActivateCoreContract(core thor.Address, height uint32, caller thor.Address) error
}

// Params are the core protocol parameters. Zero fields keep the compiled-in default,
// so a zero value can never be configured. Genesis validation rejects a zero payout percent.
type Params struct {
	RewardCycleLength    uint32 `yaml:"rewardCycleLength"`
	ActivationDelay      uint32 `yaml:"activationDelay"`
	ActivationThreshold  uint32 `yaml:"activationThreshold"`
	TokenRewardMaturity  uint32 `yaml:"tokenRewardMaturity"`
	StackerPayoutPercent uint32 `yaml:"stackerPayoutPercent"`
}

type shutdown struct {
	Height uint32
}

// Core is a versioned core contract. Several may exist side by side at different addresses,
// the auth registry decides which one is active.
type Core struct {
	ctx      *solidity.Context
	token    *token.Token
	ustx     *token.Ledger
	registry Registry
	authAddr thor.Address

	stacking *stacking.Service
	mining   *mining.Service

	userIDs          *solidity.Mapping[thor.Address, uint32]
	users            *solidity.Mapping[solidity.Uint32Key, thor.Address]
	usersNonce       *solidity.Counter
	activated        *solidity.Raw[bool]
	activationHeight *solidity.Raw[uint32]
	cityWallet       *solidity.Raw[thor.Address]
	shutdown         *solidity.Raw[*shutdown]
	thresholds       *solidity.Raw[*coinbase.Thresholds]
	amounts          *solidity.Raw[*coinbase.Amounts]

	cycleLength         *solidity.ConfigVariable
	activationDelay     *solidity.ConfigVariable
	activationThreshold *solidity.ConfigVariable
	rewardMaturity      *solidity.ConfigVariable
	payoutPercent       *solidity.ConfigVariable
}

// New creates the core binder. ustx is the native asset ledger miners commit with.
func New(ctx *solidity.Context, tok *token.Token, ustx *token.Ledger, registry Registry, authAddr thor.Address) *Core {
	c := &Core{
		ctx:      ctx,
		token:    tok,
		ustx:     ustx,
		registry: registry,
		authAddr: authAddr,

		stacking: stacking.New(ctx),
		mining:   mining.New(ctx),

		userIDs:          solidity.NewMapping[thor.Address, uint32](ctx, slotUserIDs),
		users:            solidity.NewMapping[solidity.Uint32Key, thor.Address](ctx, slotUsers),
		usersNonce:       solidity.NewCounter(ctx, slotUsersNonce),
		activated:        solidity.NewRaw[bool](ctx, slotActivated),
		activationHeight: solidity.NewRaw[uint32](ctx, slotActivationHeight),
		cityWallet:       solidity.NewRaw[thor.Address](ctx, slotCityWallet),
		shutdown:         solidity.NewRaw[*shutdown](ctx, slotShutdown),
		thresholds:       solidity.NewRaw[*coinbase.Thresholds](ctx, slotThresholds),
		amounts:          solidity.NewRaw[*coinbase.Amounts](ctx, slotAmounts),

		cycleLength:         solidity.NewConfigVariable("core-reward-cycle-length", thor.RewardCycleLength),
		activationDelay:     solidity.NewConfigVariable("core-activation-delay", thor.ActivationDelay),
		activationThreshold: solidity.NewConfigVariable("core-activation-threshold", thor.ActivationThreshold),
		rewardMaturity:      solidity.NewConfigVariable("core-token-reward-maturity", thor.TokenRewardMaturity),
		payoutPercent:       solidity.NewConfigVariable("core-stacker-payout-percent", uint32(thor.StackerPayoutPercent)),
	}
	for _, cv := range c.configVariables() {
		cv.Override(ctx)
	}
	return c
}

func (c *Core) configVariables() []*solidity.ConfigVariable {
	return []*solidity.ConfigVariable{
		c.cycleLength,
		c.activationDelay,
		c.activationThreshold,
		c.rewardMaturity,
		c.payoutPercent,
	}
}

// Configure stores protocol parameters and the initial city wallet. Only used when deploying a core.
func (c *Core) Configure(p Params, cityWallet thor.Address) error {
	values := []uint32{
		p.RewardCycleLength,
		p.ActivationDelay,
		p.ActivationThreshold,
		p.TokenRewardMaturity,
		p.StackerPayoutPercent,
	}
	for i, cv := range c.configVariables() {
		if values[i] != 0 {
			cv.Store(c.ctx, values[i])
		}
	}
	return c.cityWallet.Set(cityWallet)
}

func (c *Core) Address() thor.Address {
	return c.ctx.Address()
}

// Params returns the effective parameters.
func (c *Core) Params() Params {
	return Params{
		RewardCycleLength:    c.cycleLength.Get(),
		ActivationDelay:      c.activationDelay.Get(),
		ActivationThreshold:  c.activationThreshold.Get(),
		TokenRewardMaturity:  c.rewardMaturity.Get(),
		StackerPayoutPercent: c.payoutPercent.Get(),
	}
}

func (c *Core) IsShutdown() (bool, error) {
	s, err := c.shutdown.Get()
	return s != nil, err
}

func (c *Core) requireEnabled() error {
	disabled, err := c.IsShutdown()
	if err != nil {
		return err
	}
	if disabled {
		return ErrContractDisabled
	}
	return nil
}

// GetUserID returns 0 for unknown principals.
func (c *Core) GetUserID(addr thor.Address) (uint32, error) {
	return c.userIDs.Get(addr)
}

// GetUser returns the principal registered under id, and false if there is none.
func (c *Core) GetUser(id uint32) (thor.Address, bool, error) {
	addr, err := c.users.Get(solidity.Uint32Key(id))
	if err != nil {
		return thor.Address{}, false, err
	}
	return addr, !addr.IsZero(), nil
}

func (c *Core) GetRegisteredUsersNonce() (uint32, error) {
	return c.usersNonce.Get()
}

func (c *Core) getOrCreateUserID(addr thor.Address) (uint32, error) {
	id, err := c.userIDs.Get(addr)
	if err != nil || id != 0 {
		return id, err
	}
	if id, err = c.usersNonce.Next(); err != nil {
		return 0, err
	}
	if err := c.userIDs.Set(addr, id); err != nil {
		return 0, err
	}
	if err := c.users.Set(solidity.Uint32Key(id), addr); err != nil {
		return 0, err
	}
	return id, nil
}

// RegisterUser signs up sender. The registration that reaches the activation threshold
// activates the core, the auth registry entry and the token.
func (c *Core) RegisterUser(sender thor.Address, memo *string) error {
	if err := c.requireEnabled(); err != nil {
		return err
	}
	activated, err := c.activated.Get()
	if err != nil {
		return err
	}
	if activated {
		return ErrActivationThresholdReached
	}
	id, err := c.userIDs.Get(sender)
	if err != nil {
		return err
	}
	if id != 0 {
		return ErrUserAlreadyRegistered
	}
	if id, err = c.getOrCreateUserID(sender); err != nil {
		return err
	}
	if memo != nil {
		c.ctx.Print(nil, memo)
	}
	metricRegistrations().Add(1)
	logger.Debug("user registered", "core", c.Address(), "user", sender, "id", id)

	if id >= c.activationThreshold.Get() {
		return c.activate()
	}
	return nil
}

func (c *Core) activate() error {
	height := c.ctx.BlockNumber() + c.activationDelay.Get()
	if err := c.activated.Set(true); err != nil {
		return err
	}
	if err := c.activationHeight.Set(height); err != nil {
		return err
	}
	if err := c.registry.ActivateCoreContract(c.Address(), height, c.Address()); err != nil {
		return err
	}
	// a core deployed by an upgrade keeps the schedule of the already active token
	if err := c.token.Activate(c.Address(), height); err != nil && !errors.Is(err, token.ErrTokenAlreadyActivated) {
		return err
	}
	if err := c.copyCoinbaseThresholds(); err != nil {
		return err
	}
	if err := c.copyCoinbaseAmounts(); err != nil {
		return err
	}
	logger.Info("core contract activated", "core", c.Address(), "activationHeight", height)
	return nil
}

func (c *Core) GetActivationStatus() (bool, error) {
	return c.activated.Get()
}

// GetActivationHeight returns 0 before the threshold is reached.
func (c *Core) GetActivationHeight() (uint32, error) {
	return c.activationHeight.Get()
}

func (c *Core) GetActivationTarget() uint32 {
	return c.activationThreshold.Get()
}

// isActive reports whether the protocol reached its activation height.
func (c *Core) isActive() (bool, uint32, error) {
	activated, err := c.activated.Get()
	if err != nil || !activated {
		return false, 0, err
	}
	height, err := c.activationHeight.Get()
	if err != nil {
		return false, 0, err
	}
	return c.ctx.BlockNumber() >= height, height, nil
}

// GetRewardCycle returns the cycle containing height, false if height precedes activation.
func (c *Core) GetRewardCycle(height uint32) (uint32, bool, error) {
	activated, err := c.activated.Get()
	if err != nil || !activated {
		return 0, false, err
	}
	activationHeight, err := c.activationHeight.Get()
	if err != nil {
		return 0, false, err
	}
	if height < activationHeight {
		return 0, false, nil
	}
	return (height - activationHeight) / c.cycleLength.Get(), true, nil
}

func (c *Core) currentCycle() (uint32, bool, error) {
	return c.GetRewardCycle(c.ctx.BlockNumber())
}

// GetFirstStacksBlockInRewardCycle returns the first block height of cycle.
func (c *Core) GetFirstStacksBlockInRewardCycle(cycle uint32) (uint64, error) {
	height, err := c.activationHeight.Get()
	if err != nil {
		return 0, err
	}
	return uint64(height) + uint64(cycle)*uint64(c.cycleLength.Get()), nil
}

func (c *Core) GetCityWallet() (thor.Address, error) {
	return c.cityWallet.Get()
}

// SetCityWallet changes the wallet receiving the retained share of mined ustx.
func (c *Core) SetCityWallet(wallet, caller thor.Address) error {
	if caller != c.authAddr {
		return ErrUnauthorized
	}
	if err := c.cityWallet.Set(wallet); err != nil {
		return err
	}
	logger.Info("city wallet updated", "core", c.Address(), "wallet", wallet)
	return nil
}

// ShutdownContract disables mining, stacking and registration from now on.
func (c *Core) ShutdownContract(height uint32, caller thor.Address) error {
	if caller != c.authAddr {
		return ErrUnauthorized
	}
	if err := c.requireEnabled(); err != nil {
		return err
	}
	if err := c.shutdown.Set(&shutdown{Height: height}); err != nil {
		return err
	}
	logger.Info("core contract shut down", "core", c.Address(), "height", height)
	return nil
}

// GetShutdownHeight returns the height passed to ShutdownContract, false if still enabled.
func (c *Core) GetShutdownHeight() (uint32, bool, error) {
	s, err := c.shutdown.Get()
	if err != nil || s == nil {
		return 0, false, err
	}
	return s.Height, true, nil
}

func (c *Core) copyCoinbaseThresholds() error {
	th, err := c.token.GetCoinbaseThresholds()
	if err != nil {
		return err
	}
	return c.thresholds.Set(&th)
}

func (c *Core) copyCoinbaseAmounts() error {
	a, err := c.token.GetCoinbaseAmounts()
	if err != nil {
		return err
	}
	return c.amounts.Set(&a)
}

// UpdateCoinbaseThresholds copies the thresholds from the token.
func (c *Core) UpdateCoinbaseThresholds(caller thor.Address) error {
	if caller != c.authAddr {
		return ErrUnauthorized
	}
	return c.copyCoinbaseThresholds()
}

// UpdateCoinbaseAmounts copies the amounts from the token.
func (c *Core) UpdateCoinbaseAmounts(caller thor.Address) error {
	if caller != c.authAddr {
		return ErrUnauthorized
	}
	return c.copyCoinbaseAmounts()
}

func (c *Core) GetCoinbaseThresholds() (coinbase.Thresholds, error) {
	th, err := c.thresholds.Get()
	if err != nil {
		return coinbase.Thresholds{}, err
	}
	if th == nil {
		return coinbase.Thresholds{}, ErrCoinbaseAmountsNotFound
	}
	return *th, nil
}

func (c *Core) GetCoinbaseAmounts() (coinbase.Amounts, error) {
	a, err := c.amounts.Get()
	if err != nil {
		return coinbase.Amounts{}, err
	}
	if a == nil {
		return coinbase.Amounts{}, ErrCoinbaseAmountsNotFound
	}
	return *a, nil
}

// GetCoinbaseAmount returns the coinbase paid for the block at height.
func (c *Core) GetCoinbaseAmount(height uint32) (uint64, error) {
	th, err := c.GetCoinbaseThresholds()
	if err != nil {
		return 0, err
	}
	amounts, err := c.GetCoinbaseAmounts()
	if err != nil {
		return 0, err
	}
	activationHeight, err := c.activationHeight.Get()
	if err != nil {
		return 0, err
	}
	schedule := &coinbase.Schedule{
		ActivationHeight: activationHeight,
		BonusPeriod:      c.token.BonusPeriod(),
		Thresholds:       th,
		Amounts:          amounts,
	}
	return schedule.AmountAt(height), nil
}
