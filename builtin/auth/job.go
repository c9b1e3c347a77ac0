// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auth

import (
	"github.com/citycoins/protocol/builtin/solidity"
	"github.com/citycoins/protocol/thor"
)

type (
	argumentKey = solidity.PairKey[solidity.Uint32Key, solidity.StringKey]
	approvalKey = solidity.PairKey[solidity.Uint32Key, thor.Address]
)

// Job is a staged configuration change. Votes are kept apart, keyed by approver address,
// and counted against the approver set at execution time.
type Job struct {
	Name      string
	Target    thor.Address
	Creator   thor.Address
	Status    JobStatus
	CreatedAt uint32
}

// ArgumentKind tells which field of an Argument is set.
type ArgumentKind uint8

const (
	ArgumentUint ArgumentKind = iota
	ArgumentPrincipal
)

// Argument is a named job parameter.
type Argument struct {
	Kind      ArgumentKind
	Uint      uint64
	Principal thor.Address
}

// CreateJob opens a pending job. Active approvers and the city wallet may create jobs.
func (a *Auth) CreateJob(name string, target, sender thor.Address) (uint32, error) {
	approver, err := a.IsApprover(sender)
	if err != nil {
		return 0, err
	}
	if !approver {
		if err := a.requireCityWallet(sender); err != nil {
			return 0, err
		}
	}
	id, err := a.lastJobID.Next()
	if err != nil {
		return 0, err
	}
	job := &Job{
		Name:      name,
		Target:    target,
		Creator:   sender,
		Status:    JobPending,
		CreatedAt: a.ctx.BlockNumber(),
	}
	if err := a.jobs.Set(solidity.Uint32Key(id), job); err != nil {
		return 0, err
	}
	logger.Debug("job created", "id", id, "name", name, "creator", sender)
	return id, nil
}

// GetJob returns nil for unknown ids.
func (a *Auth) GetJob(jobID uint32) (*Job, error) {
	return a.jobs.Get(solidity.Uint32Key(jobID))
}

func (a *Auth) GetLastJobID() (uint32, error) {
	return a.lastJobID.Get()
}

func (a *Auth) mustGetJob(jobID uint32) (*Job, error) {
	job, err := a.GetJob(jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrUnknownJob
	}
	return job, nil
}

func (a *Auth) transition(jobID uint32, job *Job, t Transition) error {
	next, err := job.Status.Apply(t)
	if err != nil {
		return err
	}
	job.Status = next
	if err := a.jobs.Set(solidity.Uint32Key(jobID), job); err != nil {
		return err
	}
	metricJobTransitions().AddWithLabel(1, map[string]string{"transition": t.String()})
	logger.Debug("job transition", "id", jobID, "transition", t, "status", next)
	return nil
}

func (a *Auth) addArgument(jobID uint32, name string, arg *Argument, sender thor.Address) error {
	job, err := a.mustGetJob(jobID)
	if err != nil {
		return err
	}
	if job.Creator != sender {
		return ErrUnauthorized
	}
	if err := job.Status.requirePending(); err != nil {
		return err
	}
	key := argumentKey{First: solidity.Uint32Key(jobID), Second: solidity.StringKey(name)}
	exists, err := a.arguments.Exists(key)
	if err != nil {
		return err
	}
	if exists {
		return ErrArgumentAlreadyExists
	}
	return a.arguments.Set(key, arg)
}

// AddUintArgument attaches a uint argument to a pending job. Creator only.
func (a *Auth) AddUintArgument(jobID uint32, name string, value uint64, sender thor.Address) error {
	return a.addArgument(jobID, name, &Argument{Kind: ArgumentUint, Uint: value}, sender)
}

// AddPrincipalArgument attaches a principal argument to a pending job. Creator only.
func (a *Auth) AddPrincipalArgument(jobID uint32, name string, value thor.Address, sender thor.Address) error {
	return a.addArgument(jobID, name, &Argument{Kind: ArgumentPrincipal, Principal: value}, sender)
}

func (a *Auth) getArgument(jobID uint32, name string, kind ArgumentKind) (*Argument, error) {
	arg, err := a.arguments.Get(argumentKey{First: solidity.Uint32Key(jobID), Second: solidity.StringKey(name)})
	if err != nil {
		return nil, err
	}
	if arg == nil || arg.Kind != kind {
		return nil, ErrUnknownArgument
	}
	return arg, nil
}

// GetUintValueByName fails with ErrUnknownArgument when the job has no uint argument of that name.
func (a *Auth) GetUintValueByName(jobID uint32, name string) (uint64, error) {
	arg, err := a.getArgument(jobID, name, ArgumentUint)
	if err != nil {
		return 0, err
	}
	return arg.Uint, nil
}

// GetPrincipalValueByName fails with ErrUnknownArgument when the job has no principal argument of that name.
func (a *Auth) GetPrincipalValueByName(jobID uint32, name string) (thor.Address, error) {
	arg, err := a.getArgument(jobID, name, ArgumentPrincipal)
	if err != nil {
		return thor.Address{}, err
	}
	return arg.Principal, nil
}

// ActivateJob freezes the arguments and opens the job for votes. Creator only.
func (a *Auth) ActivateJob(jobID uint32, sender thor.Address) error {
	job, err := a.mustGetJob(jobID)
	if err != nil {
		return err
	}
	if job.Creator != sender {
		return ErrUnauthorized
	}
	return a.transition(jobID, job, TransitionActivate)
}

// CancelJob abandons a pending job. Creator only.
func (a *Auth) CancelJob(jobID uint32, sender thor.Address) error {
	job, err := a.mustGetJob(jobID)
	if err != nil {
		return err
	}
	if job.Creator != sender {
		return ErrUnauthorized
	}
	return a.transition(jobID, job, TransitionCancel)
}

func (a *Auth) vote(jobID uint32, approver thor.Address, approve bool) error {
	job, err := a.mustGetJob(jobID)
	if err != nil {
		return err
	}
	ok, err := a.IsApprover(approver)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	if err := job.Status.requireActive(); err != nil {
		return err
	}
	key := approvalKey{First: solidity.Uint32Key(jobID), Second: approver}
	if approve {
		return a.approvals.Set(key, true)
	}
	a.approvals.Delete(key)
	return nil
}

// ApproveJob records the approver's vote. Repeated approvals count once.
func (a *Auth) ApproveJob(jobID uint32, approver thor.Address) error {
	if err := a.vote(jobID, approver, true); err != nil {
		return err
	}
	logger.Debug("job approved", "id", jobID, "approver", approver)
	return nil
}

// DisapproveJob withdraws the approver's vote.
func (a *Auth) DisapproveJob(jobID uint32, approver thor.Address) error {
	if err := a.vote(jobID, approver, false); err != nil {
		return err
	}
	logger.Debug("job disapproved", "id", jobID, "approver", approver)
	return nil
}

// HasApproved reports whether approver currently has a vote on the job.
func (a *Auth) HasApproved(jobID uint32, approver thor.Address) (bool, error) {
	return a.approvals.Get(approvalKey{First: solidity.Uint32Key(jobID), Second: approver})
}

// CountApprovals counts votes of the current active approvers only.
func (a *Auth) CountApprovals(jobID uint32) (uint32, error) {
	count, err := a.approverCount.Get()
	if err != nil {
		return 0, err
	}
	var approvals uint32
	for id := uint32(1); id <= count; id++ {
		approver, err := a.approvers.Get(solidity.Uint32Key(id))
		if err != nil {
			return 0, err
		}
		if approver == nil || !approver.Active {
			continue
		}
		voted, err := a.HasApproved(jobID, approver.Addr)
		if err != nil {
			return 0, err
		}
		if voted {
			approvals++
		}
	}
	return approvals, nil
}

// IsJobApproved reports whether the job is active and has reached quorum.
func (a *Auth) IsJobApproved(jobID uint32) (bool, error) {
	job, err := a.GetJob(jobID)
	if err != nil || job == nil || job.Status != JobActive {
		return false, err
	}
	approvals, err := a.CountApprovals(jobID)
	if err != nil {
		return false, err
	}
	quorum, err := a.quorum.Get()
	if err != nil {
		return false, err
	}
	return approvals >= quorum, nil
}
