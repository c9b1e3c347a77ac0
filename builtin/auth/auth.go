// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auth

import (
	"github.com/pkg/errors"

	"github.com/citycoins/protocol/builtin/coinbase"
	"github.com/citycoins/protocol/builtin/solidity"
	"github.com/citycoins/protocol/log"
	"github.com/citycoins/protocol/thor"
)

var logger = log.WithContext("pkg", "auth")

var (
	slotJobs          = thor.BytesToBytes32([]byte("jobs"))
	slotLastJobID     = thor.BytesToBytes32([]byte("last-job-id"))
	slotArguments     = thor.BytesToBytes32([]byte("job-arguments"))
	slotApprovals     = thor.BytesToBytes32([]byte("job-approvals"))
	slotApprovers     = thor.BytesToBytes32([]byte("approvers"))
	slotApproverIndex = thor.BytesToBytes32([]byte("approver-index"))
	slotApproverCount = thor.BytesToBytes32([]byte("approver-count"))
	slotQuorum        = thor.BytesToBytes32([]byte("quorum"))
	slotCityWallet    = thor.BytesToBytes32([]byte("city-wallet"))
	slotCoreContracts = thor.BytesToBytes32([]byte("core-contracts"))
	slotActiveCore    = thor.BytesToBytes32([]byte("active-core-contract"))
)

// CoreContract is the part of a core contract governance writes to.
type CoreContract interface {
	SetCityWallet(wallet, caller thor.Address) error
	UpdateCoinbaseThresholds(caller thor.Address) error
	UpdateCoinbaseAmounts(caller thor.Address) error
	ShutdownContract(height uint32, caller thor.Address) error
}

// CityToken is the part of the city token governance writes to.
type CityToken interface {
	UpdateCoinbaseThresholds(caller thor.Address, thresholds coinbase.Thresholds) error
	UpdateCoinbaseAmounts(caller thor.Address, amounts coinbase.Amounts) error
	SetTokenURI(caller thor.Address, uri *string) error
}

// Contracts resolves contract addresses to binders.
type Contracts interface {
	Core(addr thor.Address) (CoreContract, bool)
	Token(addr thor.Address) (CityToken, bool)
}

// Approver occupies one slot of the approver set.
type Approver struct {
	Addr   thor.Address
	Active bool
}

type approverIndex struct {
	ID     uint32
	Active bool
}

// Auth is the governance contract: approver set, job engine, core contract registry
// and the city wallet's direct configuration path.
type Auth struct {
	ctx       *solidity.Context
	contracts Contracts

	jobs          *solidity.Mapping[solidity.Uint32Key, *Job]
	lastJobID     *solidity.Counter
	arguments     *solidity.Mapping[argumentKey, *Argument]
	approvals     *solidity.Mapping[approvalKey, bool]
	approvers     *solidity.Mapping[solidity.Uint32Key, *Approver]
	approverIndex *solidity.Mapping[thor.Address, *approverIndex]
	approverCount *solidity.Raw[uint32]
	quorum        *solidity.Raw[uint32]
	cityWallet    *solidity.Raw[thor.Address]
	coreContracts *solidity.Mapping[thor.Address, *CoreContractInfo]
	activeCore    *solidity.Raw[thor.Address]
}

func New(ctx *solidity.Context, contracts Contracts) *Auth {
	return &Auth{
		ctx:       ctx,
		contracts: contracts,

		jobs:          solidity.NewMapping[solidity.Uint32Key, *Job](ctx, slotJobs),
		lastJobID:     solidity.NewCounter(ctx, slotLastJobID),
		arguments:     solidity.NewMapping[argumentKey, *Argument](ctx, slotArguments),
		approvals:     solidity.NewMapping[approvalKey, bool](ctx, slotApprovals),
		approvers:     solidity.NewMapping[solidity.Uint32Key, *Approver](ctx, slotApprovers),
		approverIndex: solidity.NewMapping[thor.Address, *approverIndex](ctx, slotApproverIndex),
		approverCount: solidity.NewRaw[uint32](ctx, slotApproverCount),
		quorum:        solidity.NewRaw[uint32](ctx, slotQuorum),
		cityWallet:    solidity.NewRaw[thor.Address](ctx, slotCityWallet),
		coreContracts: solidity.NewMapping[thor.Address, *CoreContractInfo](ctx, slotCoreContracts),
		activeCore:    solidity.NewRaw[thor.Address](ctx, slotActiveCore),
	}
}

func (a *Auth) Address() thor.Address {
	return a.ctx.Address()
}

// Initialize installs the approver set with ids 1..N. Only used when building genesis.
func (a *Auth) Initialize(approvers []thor.Address, quorum uint32, cityWallet thor.Address) error {
	if quorum == 0 || int(quorum) > len(approvers) {
		return errors.Errorf("invalid quorum %d for %d approvers", quorum, len(approvers))
	}
	for i, addr := range approvers {
		id := uint32(i + 1)
		if idx, err := a.approverIndex.Get(addr); err != nil {
			return err
		} else if idx != nil {
			return errors.Errorf("duplicate approver %v", addr)
		}
		if err := a.approvers.Set(solidity.Uint32Key(id), &Approver{Addr: addr, Active: true}); err != nil {
			return err
		}
		if err := a.approverIndex.Set(addr, &approverIndex{ID: id, Active: true}); err != nil {
			return err
		}
	}
	if err := a.approverCount.Set(uint32(len(approvers))); err != nil {
		return err
	}
	if err := a.quorum.Set(quorum); err != nil {
		return err
	}
	return a.cityWallet.Set(cityWallet)
}

// IsApprover reports whether addr is a currently active approver.
func (a *Auth) IsApprover(addr thor.Address) (bool, error) {
	idx, err := a.approverIndex.Get(addr)
	if err != nil {
		return false, err
	}
	return idx != nil && idx.Active, nil
}

// GetApproverByID returns nil for unknown ids.
func (a *Auth) GetApproverByID(id uint32) (*Approver, error) {
	return a.approvers.Get(solidity.Uint32Key(id))
}

func (a *Auth) GetQuorum() (uint32, error) {
	return a.quorum.Get()
}

func (a *Auth) GetApproverCount() (uint32, error) {
	return a.approverCount.Get()
}

func (a *Auth) GetCityWallet() (thor.Address, error) {
	return a.cityWallet.Get()
}

// replaceApprover hands the slot of prev over to next.
func (a *Auth) replaceApprover(prev, next thor.Address) error {
	idx, err := a.approverIndex.Get(prev)
	if err != nil {
		return err
	}
	if idx == nil || !idx.Active {
		return ErrUnauthorized
	}
	if isNew, err := a.IsApprover(next); err != nil {
		return err
	} else if isNew {
		return ErrUnauthorized
	}
	if err := a.approverIndex.Set(prev, &approverIndex{ID: idx.ID, Active: false}); err != nil {
		return err
	}
	if err := a.approverIndex.Set(next, &approverIndex{ID: idx.ID, Active: true}); err != nil {
		return err
	}
	if err := a.approvers.Set(solidity.Uint32Key(idx.ID), &Approver{Addr: next, Active: true}); err != nil {
		return err
	}
	logger.Info("approver replaced", "id", idx.ID, "old", prev, "new", next)
	return nil
}

func (a *Auth) requireCityWallet(sender thor.Address) error {
	wallet, err := a.cityWallet.Get()
	if err != nil {
		return err
	}
	if sender != wallet {
		return ErrUnauthorized
	}
	return nil
}
