// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citycoins/protocol/builtin/coinbase"
	"github.com/citycoins/protocol/builtin/reverts"
	"github.com/citycoins/protocol/builtin/solidity"
	"github.com/citycoins/protocol/lvldb"
	"github.com/citycoins/protocol/state"
	"github.com/citycoins/protocol/thor"
	"github.com/citycoins/protocol/xenv"
)

var (
	authAddr    = thor.BytesToAddress([]byte("auth"))
	coreAddr    = thor.BytesToAddress([]byte("core-v2"))
	nextCore    = thor.BytesToAddress([]byte("core-v3"))
	tokenAddr   = thor.BytesToAddress([]byte("token"))
	cityWallet  = thor.BytesToAddress([]byte("city-wallet"))
	newWallet   = thor.BytesToAddress([]byte("new-city-wallet"))
	outsider    = thor.BytesToAddress([]byte("outsider"))
	newApprover = thor.BytesToAddress([]byte("approver-6"))
	approvers   = []thor.Address{
		thor.BytesToAddress([]byte("approver-1")),
		thor.BytesToAddress([]byte("approver-2")),
		thor.BytesToAddress([]byte("approver-3")),
		thor.BytesToAddress([]byte("approver-4")),
		thor.BytesToAddress([]byte("approver-5")),
	}
	slotFake = thor.BytesToBytes32([]byte("fake"))
)

// fakeCore records governance writes into its own storage slot.
type fakeCore struct {
	ctx      *solidity.Context
	wallet   thor.Address
	shutdown bool
	fail     error
	updates  int
}

func (c *fakeCore) SetCityWallet(wallet, caller thor.Address) error {
	if caller != authAddr {
		return reverts.New(1001, "ERR_UNAUTHORIZED")
	}
	c.wallet = wallet
	return nil
}

func (c *fakeCore) UpdateCoinbaseThresholds(caller thor.Address) error {
	if c.fail != nil {
		return c.fail
	}
	c.updates++
	return nil
}

func (c *fakeCore) UpdateCoinbaseAmounts(caller thor.Address) error {
	if c.fail != nil {
		return c.fail
	}
	c.updates++
	return nil
}

func (c *fakeCore) ShutdownContract(height uint32, caller thor.Address) error {
	c.shutdown = true
	return nil
}

// fakeToken stores the last written value so reverts can be observed in state.
type fakeToken struct {
	ctx *solidity.Context
	uri *string
}

func (t *fakeToken) UpdateCoinbaseThresholds(caller thor.Address, th coinbase.Thresholds) error {
	t.ctx.State().SetStorage(tokenAddr, slotFake, thor.BytesToBytes32([]byte{byte(th[0])}))
	memo := "thresholds"
	t.ctx.Print(nil, &memo)
	return nil
}

func (t *fakeToken) UpdateCoinbaseAmounts(caller thor.Address, a coinbase.Amounts) error {
	t.ctx.State().SetStorage(tokenAddr, slotFake, thor.BytesToBytes32([]byte{byte(a.Bonus)}))
	return nil
}

func (t *fakeToken) SetTokenURI(caller thor.Address, uri *string) error {
	t.uri = uri
	return nil
}

type fakeContracts struct {
	cores map[thor.Address]*fakeCore
	token *fakeToken
}

func (f *fakeContracts) Core(addr thor.Address) (CoreContract, bool) {
	c, ok := f.cores[addr]
	return c, ok
}

func (f *fakeContracts) Token(addr thor.Address) (CityToken, bool) {
	if addr != tokenAddr {
		return nil, false
	}
	return f.token, true
}

type authTest struct {
	*Auth
	t         *testing.T
	st        *state.State
	env       *xenv.Environment
	contracts *fakeContracts
}

func newAuthTest(t *testing.T) *authTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	env := xenv.New(&xenv.BlockContext{Number: 100}, thor.Address{})
	ctx := solidity.NewContext(authAddr, st, env)
	contracts := &fakeContracts{
		cores: map[thor.Address]*fakeCore{
			coreAddr: {ctx: ctx.At(coreAddr)},
			nextCore: {ctx: ctx.At(nextCore)},
		},
		token: &fakeToken{ctx: ctx.At(tokenAddr)},
	}
	a := New(ctx, contracts)
	require.NoError(t, a.Initialize(approvers, 3, cityWallet))
	require.NoError(t, a.RegisterCoreContract(coreAddr))
	require.NoError(t, a.ActivateCoreContract(coreAddr, 150, coreAddr))
	return &authTest{Auth: a, t: t, st: st, env: env, contracts: contracts}
}

// newApprovedJob creates a job with args, activates it and collects votes from the first n approvers.
func (at *authTest) newApprovedJob(name string, target thor.Address, n int, args func(id uint32)) uint32 {
	id, err := at.CreateJob(name, target, approvers[0])
	require.NoError(at.t, err)
	if args != nil {
		args(id)
	}
	require.NoError(at.t, at.ActivateJob(id, approvers[0]))
	for i := 0; i < n; i++ {
		require.NoError(at.t, at.ApproveJob(id, approvers[i]))
	}
	return id
}

func TestInitialize(t *testing.T) {
	at := newAuthTest(t)

	for i, addr := range approvers {
		ok, err := at.IsApprover(addr)
		require.NoError(t, err)
		assert.True(t, ok)

		approver, err := at.GetApproverByID(uint32(i + 1))
		require.NoError(t, err)
		assert.Equal(t, &Approver{Addr: addr, Active: true}, approver)
	}
	ok, _ := at.IsApprover(outsider)
	assert.False(t, ok)

	quorum, _ := at.GetQuorum()
	assert.Equal(t, uint32(3), quorum)
	wallet, _ := at.GetCityWallet()
	assert.Equal(t, cityWallet, wallet)

	assert.Error(t, at.Initialize(approvers[:2], 3, cityWallet))
}

func TestJobLifecycle(t *testing.T) {
	at := newAuthTest(t)

	_, err := at.CreateJob("test", coreAddr, outsider)
	assert.ErrorIs(t, err, ErrUnauthorized)

	id, err := at.CreateJob("test", coreAddr, approvers[0])
	require.NoError(t, err)
	assert.Equal(t, uint32(1), id)

	// the city wallet holds the creator role
	id2, err := at.CreateJob("wallet job", coreAddr, cityWallet)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), id2)
	last, _ := at.GetLastJobID()
	assert.Equal(t, uint32(2), last)

	assert.ErrorIs(t, at.AddUintArgument(id, "threshold1", 1, approvers[1]), ErrUnauthorized)
	require.NoError(t, at.AddUintArgument(id, "threshold1", 1, approvers[0]))
	assert.ErrorIs(t, at.AddUintArgument(id, "threshold1", 2, approvers[0]), ErrArgumentAlreadyExists)
	require.NoError(t, at.AddPrincipalArgument(id, ArgNewCityWallet, newWallet, approvers[0]))
	assert.ErrorIs(t, at.AddUintArgument(99, "x", 1, approvers[0]), ErrUnknownJob)

	assert.ErrorIs(t, at.ApproveJob(id, approvers[1]), ErrJobIsNotActive)
	assert.ErrorIs(t, at.ActivateJob(id, approvers[1]), ErrUnauthorized)
	require.NoError(t, at.ActivateJob(id, approvers[0]))
	assert.ErrorIs(t, at.ActivateJob(id, approvers[0]), ErrJobIsActive)
	assert.ErrorIs(t, at.AddUintArgument(id, "threshold2", 2, approvers[0]), ErrJobIsActive)
	assert.ErrorIs(t, at.CancelJob(id, approvers[0]), ErrJobIsActive)

	v, err := at.GetUintValueByName(id, "threshold1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
	w, err := at.GetPrincipalValueByName(id, ArgNewCityWallet)
	require.NoError(t, err)
	assert.Equal(t, newWallet, w)
	_, err = at.GetUintValueByName(id, ArgNewCityWallet)
	assert.ErrorIs(t, err, ErrUnknownArgument)

	job, err := at.GetJob(id)
	require.NoError(t, err)
	assert.Equal(t, &Job{Name: "test", Target: coreAddr, Creator: approvers[0], Status: JobActive, CreatedAt: 100}, job)

	missing, err := at.GetJob(42)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCancelJob(t *testing.T) {
	at := newAuthTest(t)
	id, err := at.CreateJob("cancel me", coreAddr, approvers[0])
	require.NoError(t, err)

	assert.ErrorIs(t, at.CancelJob(id, approvers[1]), ErrUnauthorized)
	require.NoError(t, at.CancelJob(id, approvers[0]))
	assert.ErrorIs(t, at.CancelJob(id, approvers[0]), ErrJobIsNotActive)
	assert.ErrorIs(t, at.ActivateJob(id, approvers[0]), ErrJobIsNotActive)
	assert.ErrorIs(t, at.AddUintArgument(id, "x", 1, approvers[0]), ErrJobIsNotActive)

	job, _ := at.GetJob(id)
	assert.Equal(t, JobCancelled, job.Status)
}

func TestApprovalCounting(t *testing.T) {
	at := newAuthTest(t)
	id := at.newApprovedJob("count", coreAddr, 0, nil)

	assert.ErrorIs(t, at.ApproveJob(id, outsider), ErrUnauthorized)
	assert.ErrorIs(t, at.ApproveJob(99, approvers[0]), ErrUnknownJob)

	require.NoError(t, at.ApproveJob(id, approvers[0]))
	require.NoError(t, at.ApproveJob(id, approvers[0]))
	require.NoError(t, at.ApproveJob(id, approvers[1]))
	count, err := at.CountApprovals(id)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), count)

	approved, _ := at.IsJobApproved(id)
	assert.False(t, approved)

	require.NoError(t, at.ApproveJob(id, approvers[2]))
	approved, _ = at.IsJobApproved(id)
	assert.True(t, approved)

	require.NoError(t, at.DisapproveJob(id, approvers[2]))
	count, _ = at.CountApprovals(id)
	assert.Equal(t, uint32(2), count)
	approved, _ = at.IsJobApproved(id)
	assert.False(t, approved)
}

func TestQuorumGate(t *testing.T) {
	at := newAuthTest(t)
	id := at.newApprovedJob(HandlerSetCityWallet, coreAddr, 2, func(id uint32) {
		require.NoError(t, at.AddPrincipalArgument(id, ArgNewCityWallet, newWallet, approvers[0]))
	})

	assert.ErrorIs(t, at.ExecuteSetCityWalletJob(id, coreAddr, approvers[0]), ErrUnauthorized)

	require.NoError(t, at.ApproveJob(id, approvers[2]))
	assert.ErrorIs(t, at.ExecuteSetCityWalletJob(id, coreAddr, outsider), ErrUnauthorized)
	assert.ErrorIs(t, at.ExecuteSetCityWalletJob(id, nextCore, approvers[0]), ErrUnauthorized)

	require.NoError(t, at.ExecuteSetCityWalletJob(id, coreAddr, approvers[3]))
	assert.Equal(t, newWallet, at.contracts.cores[coreAddr].wallet)
	wallet, _ := at.GetCityWallet()
	assert.Equal(t, newWallet, wallet)

	assert.ErrorIs(t, at.ExecuteSetCityWalletJob(id, coreAddr, approvers[0]), ErrJobIsExecuted)
	assert.ErrorIs(t, at.ApproveJob(id, approvers[4]), ErrJobIsExecuted)

	job, _ := at.GetJob(id)
	assert.Equal(t, JobExecuted, job.Status)
}

func TestQuorumGateIgnoresArguments(t *testing.T) {
	at := newAuthTest(t)
	// no arguments at all: below quorum still reports ErrUnauthorized
	id := at.newApprovedJob(HandlerUpdateCoinbaseThresholds, coreAddr, 1, nil)
	assert.ErrorIs(t, at.ExecuteUpdateCoinbaseThresholdsJob(id, coreAddr, tokenAddr, approvers[0]), ErrUnauthorized)

	require.NoError(t, at.ApproveJob(id, approvers[1]))
	require.NoError(t, at.ApproveJob(id, approvers[2]))
	assert.ErrorIs(t, at.ExecuteUpdateCoinbaseThresholdsJob(id, coreAddr, tokenAddr, approvers[0]), ErrUnknownArgument)

	job, _ := at.GetJob(id)
	assert.Equal(t, JobActive, job.Status)
}

func TestReplaceApprover(t *testing.T) {
	at := newAuthTest(t)
	replaced := approvers[4]

	// a job the replaced approver already voted on
	pending := at.newApprovedJob("pending", coreAddr, 0, nil)
	require.NoError(t, at.ApproveJob(pending, replaced))

	id := at.newApprovedJob(HandlerReplaceApprover, authAddr, 3, func(id uint32) {
		require.NoError(t, at.AddPrincipalArgument(id, ArgOldApprover, replaced, approvers[0]))
		require.NoError(t, at.AddPrincipalArgument(id, ArgNewApprover, newApprover, approvers[0]))
	})
	require.NoError(t, at.ExecuteReplaceApproverJob(id, approvers[1]))

	ok, _ := at.IsApprover(replaced)
	assert.False(t, ok)
	ok, _ = at.IsApprover(newApprover)
	assert.True(t, ok)
	slot, _ := at.GetApproverByID(5)
	assert.Equal(t, &Approver{Addr: newApprover, Active: true}, slot)

	_, err := at.CreateJob("after", coreAddr, replaced)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, at.ApproveJob(pending, replaced), ErrUnauthorized)

	// the stale vote no longer counts
	count, _ := at.CountApprovals(pending)
	assert.Zero(t, count)

	require.NoError(t, at.ApproveJob(pending, newApprover))
	_, err = at.CreateJob("by new approver", coreAddr, newApprover)
	require.NoError(t, err)
}

func TestCoinbaseDualWriteIsAtomic(t *testing.T) {
	at := newAuthTest(t)
	at.contracts.cores[coreAddr].fail = reverts.New(2001, "ERR_TOKEN_NOT_ACTIVATED")

	th := coinbase.Thresholds{10, 20, 30, 40, 50}
	err := at.UpdateCoinbaseThresholds(coreAddr, tokenAddr, th, cityWallet)
	assert.ErrorIs(t, err, at.contracts.cores[coreAddr].fail)

	v, err := at.st.GetStorage(tokenAddr, slotFake)
	require.NoError(t, err)
	assert.True(t, v.IsZero(), "token write must be rolled back")
	assert.Zero(t, at.env.EventCount(), "token event must be dropped")

	at.contracts.cores[coreAddr].fail = nil
	require.NoError(t, at.UpdateCoinbaseThresholds(coreAddr, tokenAddr, th, cityWallet))
	v, _ = at.st.GetStorage(tokenAddr, slotFake)
	assert.Equal(t, thor.BytesToBytes32([]byte{10}), v)
	assert.Equal(t, 1, at.contracts.cores[coreAddr].updates)
	assert.Equal(t, 1, at.env.EventCount())
}

func TestCoinbaseJobs(t *testing.T) {
	at := newAuthTest(t)

	thresholds := at.newApprovedJob(HandlerUpdateCoinbaseThresholds, coreAddr, 3, func(id uint32) {
		for i := 1; i <= 5; i++ {
			require.NoError(t, at.AddUintArgument(id, ArgThreshold(i), uint64(i*100), approvers[0]))
		}
	})
	require.NoError(t, at.ExecuteUpdateCoinbaseThresholdsJob(thresholds, coreAddr, tokenAddr, approvers[0]))
	v, _ := at.st.GetStorage(tokenAddr, slotFake)
	assert.Equal(t, thor.BytesToBytes32([]byte{100}), v)

	amounts := at.newApprovedJob(HandlerUpdateCoinbaseAmounts, coreAddr, 3, func(id uint32) {
		require.NoError(t, at.AddUintArgument(id, ArgAmountBonus, 77, approvers[0]))
		for i := 1; i <= 5; i++ {
			require.NoError(t, at.AddUintArgument(id, ArgAmount(i), uint64(10-i), approvers[0]))
		}
		require.NoError(t, at.AddUintArgument(id, ArgAmountDefault, 1, approvers[0]))
	})
	assert.ErrorIs(t, at.ExecuteUpdateCoinbaseAmountsJob(amounts, coreAddr, outsider, approvers[0]), ErrUnauthorized)
	require.NoError(t, at.ExecuteUpdateCoinbaseAmountsJob(amounts, coreAddr, tokenAddr, approvers[0]))
	v, _ = at.st.GetStorage(tokenAddr, slotFake)
	assert.Equal(t, thor.BytesToBytes32([]byte{77}), v)
	assert.Equal(t, 2, at.contracts.cores[coreAddr].updates)
}

func TestSetTokenURIJob(t *testing.T) {
	at := newAuthTest(t)
	uri := "https://cdn.citycoins.co/metadata/miamicoin.json"

	set := at.newApprovedJob(HandlerSetTokenURI, tokenAddr, 3, nil)
	require.NoError(t, at.ExecuteSetTokenURIJob(set, tokenAddr, &uri, approvers[0]))
	require.NotNil(t, at.contracts.token.uri)
	assert.Equal(t, uri, *at.contracts.token.uri)

	cleared := at.newApprovedJob(HandlerSetTokenURI, tokenAddr, 3, nil)
	require.NoError(t, at.ExecuteSetTokenURIJob(cleared, tokenAddr, nil, approvers[0]))
	assert.Nil(t, at.contracts.token.uri)

	// any active approver may execute, with the value it brings
	other := "https://cdn.citycoins.co/metadata/newyorkcitycoin.json"
	third := at.newApprovedJob(HandlerSetTokenURI, tokenAddr, 3, nil)
	assert.ErrorIs(t, at.ExecuteSetTokenURIJob(third, tokenAddr, &other, outsider), ErrUnauthorized)
	require.NoError(t, at.ExecuteSetTokenURIJob(third, tokenAddr, &other, approvers[4]))
	assert.Equal(t, other, *at.contracts.token.uri)
}

func TestDirectCityWalletPath(t *testing.T) {
	at := newAuthTest(t)

	assert.ErrorIs(t, at.SetCityWallet(coreAddr, newWallet, approvers[0]), ErrUnauthorized)
	assert.ErrorIs(t, at.UpdateCoinbaseAmounts(coreAddr, tokenAddr, coinbase.DefaultAmounts(), outsider), ErrUnauthorized)
	assert.ErrorIs(t, at.SetCityWallet(outsider, newWallet, cityWallet), ErrCoreContractNotFound)

	require.NoError(t, at.SetCityWallet(coreAddr, newWallet, cityWallet))
	assert.Equal(t, newWallet, at.contracts.cores[coreAddr].wallet)

	// the old wallet lost its role
	assert.ErrorIs(t, at.SetCityWallet(coreAddr, cityWallet, cityWallet), ErrUnauthorized)
	require.NoError(t, at.UpdateCoinbaseAmounts(coreAddr, tokenAddr, coinbase.DefaultAmounts(), newWallet))
}

func TestCoreRegistry(t *testing.T) {
	at := newAuthTest(t)

	info, err := at.GetCoreContractInfo(coreAddr)
	require.NoError(t, err)
	assert.Equal(t, &CoreContractInfo{State: CoreActive, StartHeight: 150}, info)
	active, _ := at.GetActiveCoreContract()
	assert.Equal(t, coreAddr, active)

	_, err = at.GetCoreContractInfo(nextCore)
	assert.ErrorIs(t, err, ErrCoreContractNotFound)
	assert.ErrorIs(t, at.RegisterCoreContract(coreAddr), ErrContractAlreadyExists)
	assert.ErrorIs(t, at.ActivateCoreContract(coreAddr, 1, outsider), ErrUnauthorized)
	assert.ErrorIs(t, at.ActivateCoreContract(coreAddr, 1, coreAddr), ErrIncorrectContractState)
	assert.ErrorIs(t, at.ActivateCoreContract(nextCore, 1, nextCore), ErrCoreContractNotFound)

	approved, _ := at.IsApprovedCoreContract(coreAddr)
	assert.True(t, approved)
	approved, _ = at.IsApprovedCoreContract(nextCore)
	assert.False(t, approved)
}

func TestUpgradeCoreContractJob(t *testing.T) {
	at := newAuthTest(t)
	at.env.BlockContext().Number = 500

	id := at.newApprovedJob(HandlerUpgradeCoreContract, coreAddr, 3, func(id uint32) {
		require.NoError(t, at.AddPrincipalArgument(id, ArgOldContract, coreAddr, approvers[0]))
		require.NoError(t, at.AddPrincipalArgument(id, ArgNewContract, nextCore, approvers[0]))
	})
	assert.ErrorIs(t, at.ExecuteUpgradeCoreContractJob(id, coreAddr, outsider, approvers[0]), ErrUnauthorized)
	require.NoError(t, at.ExecuteUpgradeCoreContractJob(id, coreAddr, nextCore, approvers[0]))

	assert.True(t, at.contracts.cores[coreAddr].shutdown)
	assert.Equal(t, cityWallet, at.contracts.cores[nextCore].wallet)

	old, _ := at.GetCoreContractInfo(coreAddr)
	assert.Equal(t, &CoreContractInfo{State: CoreInactive, StartHeight: 150, EndHeight: 500}, old)
	next, _ := at.GetCoreContractInfo(nextCore)
	assert.Equal(t, &CoreContractInfo{State: CoreDeployed}, next)
	active, _ := at.GetActiveCoreContract()
	assert.Equal(t, nextCore, active)

	// inactive cores keep minting rights, deployed ones do not have them yet
	approved, _ := at.IsApprovedCoreContract(coreAddr)
	assert.True(t, approved)
	approved, _ = at.IsApprovedCoreContract(nextCore)
	assert.False(t, approved)

	require.NoError(t, at.ActivateCoreContract(nextCore, 700, nextCore))
	next, _ = at.GetCoreContractInfo(nextCore)
	assert.Equal(t, CoreActive, next.State)

	// upgrading again from an inactive core is rejected
	assert.ErrorIs(t, at.UpgradeCoreContract(coreAddr, thor.BytesToAddress([]byte("core-v4")), cityWallet), ErrIncorrectContractState)
	assert.ErrorIs(t, at.UpgradeCoreContract(nextCore, coreAddr, cityWallet), ErrContractAlreadyExists)
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from JobStatus
		t    Transition
		to   JobStatus
		err  error
	}{
		{JobPending, TransitionActivate, JobActive, nil},
		{JobPending, TransitionCancel, JobCancelled, nil},
		{JobPending, TransitionExecute, JobPending, ErrJobIsNotActive},
		{JobActive, TransitionActivate, JobActive, ErrJobIsActive},
		{JobActive, TransitionCancel, JobActive, ErrJobIsActive},
		{JobActive, TransitionExecute, JobExecuted, nil},
		{JobExecuted, TransitionExecute, JobExecuted, ErrJobIsExecuted},
		{JobExecuted, TransitionActivate, JobExecuted, ErrJobIsExecuted},
		{JobCancelled, TransitionActivate, JobCancelled, ErrJobIsNotActive},
		{JobCancelled, TransitionExecute, JobCancelled, ErrJobIsNotActive},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+tt.t.String(), func(t *testing.T) {
			to, err := tt.from.Apply(tt.t)
			assert.Equal(t, tt.to, to)
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}
