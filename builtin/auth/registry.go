// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auth

import (
	"github.com/citycoins/protocol/thor"
)

// CoreState is the registry state of a core contract.
type CoreState uint8

const (
	CoreDeployed CoreState = iota
	CoreActive
	CoreInactive
)

func (s CoreState) String() string {
	switch s {
	case CoreDeployed:
		return "deployed"
	case CoreActive:
		return "active"
	case CoreInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// CoreContractInfo is the registry entry of a core contract.
type CoreContractInfo struct {
	State       CoreState
	StartHeight uint32
	EndHeight   uint32
}

// RegisterCoreContract adds a core in the deployed state. Only used when building genesis.
func (a *Auth) RegisterCoreContract(core thor.Address) error {
	info, err := a.coreContracts.Get(core)
	if err != nil {
		return err
	}
	if info != nil {
		return ErrContractAlreadyExists
	}
	return a.coreContracts.Set(core, &CoreContractInfo{State: CoreDeployed})
}

// RegisterLegacyCoreContract adds a superseded core in the inactive state, retired at endHeight.
// Only used when building genesis.
func (a *Auth) RegisterLegacyCoreContract(core thor.Address, endHeight uint32) error {
	if exists, err := a.IsRegisteredCoreContract(core); err != nil {
		return err
	} else if exists {
		return ErrContractAlreadyExists
	}
	return a.coreContracts.Set(core, &CoreContractInfo{State: CoreInactive, EndHeight: endHeight})
}

// ActivateCoreContract is called by a deployed core once it reaches its activation threshold.
func (a *Auth) ActivateCoreContract(core thor.Address, height uint32, caller thor.Address) error {
	if caller != core {
		return ErrUnauthorized
	}
	info, err := a.coreContracts.Get(core)
	if err != nil {
		return err
	}
	if info == nil {
		return ErrCoreContractNotFound
	}
	if info.State != CoreDeployed {
		return ErrIncorrectContractState
	}
	info.State = CoreActive
	info.StartHeight = height
	if err := a.coreContracts.Set(core, info); err != nil {
		return err
	}
	if err := a.activeCore.Set(core); err != nil {
		return err
	}
	logger.Info("core contract active", "core", core, "startHeight", height)
	return nil
}

// GetCoreContractInfo fails with ErrCoreContractNotFound for unregistered addresses.
func (a *Auth) GetCoreContractInfo(core thor.Address) (*CoreContractInfo, error) {
	info, err := a.coreContracts.Get(core)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, ErrCoreContractNotFound
	}
	return info, nil
}

// IsRegisteredCoreContract reports whether core has a registry entry.
func (a *Auth) IsRegisteredCoreContract(core thor.Address) (bool, error) {
	return a.coreContracts.Exists(core)
}

// IsApprovedCoreContract reports whether core may mint. Inactive cores keep minting so their
// miners can still claim rewards earned before the upgrade.
func (a *Auth) IsApprovedCoreContract(core thor.Address) (bool, error) {
	info, err := a.coreContracts.Get(core)
	if err != nil || info == nil {
		return false, err
	}
	return info.State == CoreActive || info.State == CoreInactive, nil
}

// GetActiveCoreContract returns the zero address before any core activated.
func (a *Auth) GetActiveCoreContract() (thor.Address, error) {
	return a.activeCore.Get()
}

func (a *Auth) resolveCore(addr thor.Address) (CoreContract, error) {
	registered, err := a.IsRegisteredCoreContract(addr)
	if err != nil {
		return nil, err
	}
	if !registered {
		return nil, ErrCoreContractNotFound
	}
	core, ok := a.contracts.Core(addr)
	if !ok {
		return nil, ErrCoreContractNotFound
	}
	return core, nil
}

func (a *Auth) resolveToken(addr thor.Address) (CityToken, error) {
	tok, ok := a.contracts.Token(addr)
	if !ok {
		return nil, ErrUnauthorized
	}
	return tok, nil
}

// upgradeCore shuts prev down and registers next in the deployed state.
func (a *Auth) upgradeCore(prev, next thor.Address) error {
	oldInfo, err := a.GetCoreContractInfo(prev)
	if err != nil {
		return err
	}
	if exists, err := a.IsRegisteredCoreContract(next); err != nil {
		return err
	} else if exists {
		return ErrContractAlreadyExists
	}
	if oldInfo.State != CoreActive {
		return ErrIncorrectContractState
	}
	oldCore, err := a.resolveCore(prev)
	if err != nil {
		return err
	}
	height := a.ctx.BlockNumber()
	if err := oldCore.ShutdownContract(height, a.Address()); err != nil {
		return err
	}
	oldInfo.State = CoreInactive
	oldInfo.EndHeight = height
	if err := a.coreContracts.Set(prev, oldInfo); err != nil {
		return err
	}
	if err := a.coreContracts.Set(next, &CoreContractInfo{State: CoreDeployed}); err != nil {
		return err
	}
	if err := a.activeCore.Set(next); err != nil {
		return err
	}
	newCore, err := a.resolveCore(next)
	if err != nil {
		return err
	}
	wallet, err := a.cityWallet.Get()
	if err != nil {
		return err
	}
	if err := newCore.SetCityWallet(wallet, a.Address()); err != nil {
		return err
	}
	logger.Info("core contract upgraded", "old", prev, "new", next, "height", height)
	return nil
}
