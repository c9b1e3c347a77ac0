// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citycoins/protocol/builtin/solidity"
	"github.com/citycoins/protocol/builtin/token"
	"github.com/citycoins/protocol/lvldb"
	"github.com/citycoins/protocol/state"
	"github.com/citycoins/protocol/thor"
	"github.com/citycoins/protocol/xenv"
)

var (
	authAddr   = thor.BytesToAddress([]byte("auth"))
	legacyAddr = thor.BytesToAddress([]byte("core-v1"))
	alice      = thor.BytesToAddress([]byte("alice"))
	bob        = thor.BytesToAddress([]byte("bob"))
	wallet     = thor.BytesToAddress([]byte("city-wallet"))
)

func newContext(t *testing.T, addr thor.Address) *solidity.Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return solidity.NewContext(addr, state.New(db), xenv.New(&xenv.BlockContext{Number: 1}, alice))
}

func TestDisabledEntryPoints(t *testing.T) {
	c := NewLegacyCore(newContext(t, legacyAddr), authAddr)
	memo := "memo"

	calls := map[string]func() error{
		"register-user":         func() error { return c.RegisterUser(alice, &memo) },
		"mine-tokens":           func() error { return c.MineTokens(1000, alice, nil) },
		"claim-mining-reward":   func() error { return c.ClaimMiningReward(1, alice) },
		"stack-tokens":          func() error { return c.StackTokens(20, 8, alice) },
		"claim-stacking-reward": func() error { return c.ClaimStackingReward(1, alice) },
		"update-thresholds":     func() error { return c.UpdateCoinbaseThresholds(authAddr) },
		"update-amounts":        func() error { return c.UpdateCoinbaseAmounts(authAddr) },
		"shutdown":              func() error { return c.ShutdownContract(1, authAddr) },
	}
	for name, call := range calls {
		assert.ErrorIs(t, call(), ErrContractDisabled, name)
	}
}

func TestSetCityWalletLatch(t *testing.T) {
	c := NewLegacyCore(newContext(t, legacyAddr), authAddr)
	require.NoError(t, c.Initialize(alice))

	assert.ErrorIs(t, c.SetCityWallet(wallet, alice), ErrUnauthorized)
	require.NoError(t, c.SetCityWallet(wallet, authAddr))

	got, err := c.GetCityWallet()
	require.NoError(t, err)
	assert.Equal(t, wallet, got)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, c.SetCityWallet(bob, authAddr), ErrContractDisabled)
	}
	// unauthorized callers keep getting the authorization error
	assert.ErrorIs(t, c.SetCityWallet(bob, alice), ErrUnauthorized)

	got, _ = c.GetCityWallet()
	assert.Equal(t, wallet, got)
}

func TestBurnPassthrough(t *testing.T) {
	ledger := token.NewLedger(newContext(t, thor.BytesToAddress([]byte("token-v1"))))
	lt := NewLegacyToken(ledger)
	require.NoError(t, ledger.Mint(100, alice))

	assert.ErrorIs(t, lt.BurnPassthrough(10, alice, bob), token.ErrUnauthorized)
	assert.ErrorIs(t, lt.BurnPassthrough(101, alice, alice), token.ErrInsufficientBalance)
	require.NoError(t, lt.BurnPassthrough(40, alice, alice))

	bal, err := lt.GetBalance(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), bal)
	supply, _ := lt.TotalSupply()
	assert.Equal(t, uint64(60), supply)

	assert.ErrorIs(t, lt.Transfer(10, alice, bob, bob, nil), token.ErrUnauthorized)
	require.NoError(t, lt.Transfer(10, alice, bob, alice, nil))
	bal, _ = lt.GetBalance(bob)
	assert.Equal(t, uint64(10), bal)
}
