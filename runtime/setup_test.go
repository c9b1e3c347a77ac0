// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/citycoins/protocol/builtin"
	"github.com/citycoins/protocol/builtin/core"
	"github.com/citycoins/protocol/genesis"
	"github.com/citycoins/protocol/lvldb"
	"github.com/citycoins/protocol/thor"
)

var (
	alice = genesis.DevAccounts[0]
	bob   = genesis.DevAccounts[1]
	carol = genesis.DevAccounts[2]
)

// testConfig activates after two registrations, five blocks later, with ten block cycles.
func testConfig() *genesis.Config {
	cfg := genesis.Default()
	cfg.Core = core.Params{
		RewardCycleLength:    10,
		ActivationDelay:      5,
		ActivationThreshold:  2,
		TokenRewardMaturity:  3,
		StackerPayoutPercent: 70,
	}
	cfg.Accounts = []genesis.Account{
		{Address: alice, Ustx: 1_000_000, Legacy: 500},
		{Address: bob, Ustx: 1_000_000, Legacy: 100},
		{Address: carol, Ustx: 1_000_000},
	}
	return cfg
}

func newTestRuntime(t *testing.T, cfg *genesis.Config) (*Runtime, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	rt, err := New(db, cfg)
	require.NoError(t, err)
	return rt, db
}

type TestFunc func(t *testing.T)

// TestSequence runs protocol calls against a runtime in order.
type TestSequence struct {
	rt    *Runtime
	funcs []TestFunc
}

func NewSequence(rt *Runtime) *TestSequence {
	return &TestSequence{rt: rt}
}

func (ts *TestSequence) AddFunc(f TestFunc) *TestSequence {
	ts.funcs = append(ts.funcs, f)
	return ts
}

// AdvanceTo moves the clock to height.
func (ts *TestSequence) AdvanceTo(height uint32) *TestSequence {
	return ts.AddFunc(func(t *testing.T) {
		require.LessOrEqual(t, ts.rt.BlockNumber(), height)
		ts.rt.Advance(height - ts.rt.BlockNumber())
		t.Logf("advanced to block %d", height)
	})
}

func (ts *TestSequence) Call(sender thor.Address, name string, fn func(p *builtin.Protocol) error) *TestSequence {
	return ts.AddFunc(func(t *testing.T) {
		if _, err := ts.rt.Exec(sender, fn); err != nil {
			t.Fatalf("%s by %s failed: %v", name, sender, err)
		}
		t.Logf("%s by %s", name, sender)
	})
}

func (ts *TestSequence) Revert(sender thor.Address, name string, want error, fn func(p *builtin.Protocol) error) *TestSequence {
	return ts.AddFunc(func(t *testing.T) {
		_, err := ts.rt.Exec(sender, fn)
		require.ErrorIs(t, err, want, name)
	})
}

func (ts *TestSequence) Register(sender thor.Address) *TestSequence {
	return ts.Call(sender, "register-user", func(p *builtin.Protocol) error {
		c, err := p.Core()
		if err != nil {
			return err
		}
		return c.RegisterUser(sender, nil)
	})
}

func (ts *TestSequence) Convert(sender thor.Address) *TestSequence {
	return ts.Call(sender, "convert-to-v2", func(p *builtin.Protocol) error {
		return p.Token().ConvertToV2(sender)
	})
}

func (ts *TestSequence) Stack(sender thor.Address, amount uint64, lockPeriod uint32) *TestSequence {
	return ts.Call(sender, "stack-tokens", func(p *builtin.Protocol) error {
		c, err := p.Core()
		if err != nil {
			return err
		}
		return c.StackTokens(amount, lockPeriod, sender)
	})
}

func (ts *TestSequence) Mine(sender thor.Address, amount uint64) *TestSequence {
	return ts.Call(sender, "mine-tokens", func(p *builtin.Protocol) error {
		c, err := p.Core()
		if err != nil {
			return err
		}
		return c.MineTokens(amount, sender, nil)
	})
}

func (ts *TestSequence) View(check func(t *testing.T, p *builtin.Protocol)) *TestSequence {
	return ts.AddFunc(func(t *testing.T) {
		require.NoError(t, ts.rt.View(func(p *builtin.Protocol) error {
			check(t, p)
			return nil
		}))
	})
}

func (ts *TestSequence) Run(t *testing.T) {
	for _, f := range ts.funcs {
		f(t)
	}
}

func activeCore(t *testing.T, p *builtin.Protocol) *core.Core {
	c, err := p.Core()
	require.NoError(t, err)
	return c
}
