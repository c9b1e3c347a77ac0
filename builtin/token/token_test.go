// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citycoins/protocol/builtin/coinbase"
	"github.com/citycoins/protocol/builtin/solidity"
	"github.com/citycoins/protocol/lvldb"
	"github.com/citycoins/protocol/state"
	"github.com/citycoins/protocol/thor"
	"github.com/citycoins/protocol/xenv"
)

var (
	coreAddr   = thor.BytesToAddress([]byte("core"))
	authAddr   = thor.BytesToAddress([]byte("auth"))
	tokenAddr  = thor.BytesToAddress([]byte("token"))
	legacyAddr = thor.BytesToAddress([]byte("legacy-token"))
	alice      = thor.BytesToAddress([]byte("alice"))
	bob        = thor.BytesToAddress([]byte("bob"))
)

type fakeRegistry map[thor.Address]bool

func (r fakeRegistry) IsApprovedCoreContract(addr thor.Address) (bool, error) {
	return r[addr], nil
}

type tokenTest struct {
	*Token
	t      *testing.T
	env    *xenv.Environment
	legacy *Ledger
}

func newTokenTest(t *testing.T) *tokenTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	env := xenv.New(&xenv.BlockContext{Number: 1}, alice)
	legacy := NewLedger(solidity.NewContext(legacyAddr, st, env))
	tok := New(solidity.NewContext(tokenAddr, st, env), legacy, fakeRegistry{coreAddr: true}, authAddr)
	return &tokenTest{Token: tok, t: t, env: env, legacy: legacy}
}

func (tt *tokenTest) activate(height uint32) *tokenTest {
	require.NoError(tt.t, tt.Activate(coreAddr, height))
	return tt
}

func (tt *tokenTest) assertBalance(addr thor.Address, want uint64) *tokenTest {
	bal, err := tt.Balance(addr)
	require.NoError(tt.t, err)
	assert.Equal(tt.t, want, bal, "balance of %s", addr)
	return tt
}

func TestLedgerTransfer(t *testing.T) {
	tt := newTokenTest(t)
	l := tt.Ledger

	require.NoError(t, l.Mint(100, alice))
	assert.ErrorIs(t, l.Transfer(0, alice, bob, nil), ErrNonPositiveAmount)
	assert.ErrorIs(t, l.Transfer(10, alice, alice, nil), ErrSameSenderRecipient)
	assert.ErrorIs(t, l.Transfer(101, alice, bob, nil), ErrInsufficientBalance)

	memo := "rent"
	require.NoError(t, l.Transfer(40, alice, bob, &memo))
	tt.assertBalance(alice, 60).assertBalance(bob, 40)

	supply, err := l.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), supply)

	events := tt.env.Events()
	require.Len(t, events, 2)
	last := events[1]
	assert.Equal(t, xenv.KindTransfer, last.Kind)
	assert.Equal(t, tokenAddr, last.Contract)
	assert.Equal(t, alice, last.Sender)
	assert.Equal(t, bob, last.Recipient)
	assert.Equal(t, uint64(40), last.Amount)
	assert.Equal(t, &memo, last.Memo)
}

func TestLedgerMintBurn(t *testing.T) {
	tt := newTokenTest(t)
	l := tt.Ledger

	assert.ErrorIs(t, l.Mint(0, alice), ErrNonPositiveAmount)
	require.NoError(t, l.Mint(math.MaxUint64, alice))
	assert.ErrorIs(t, l.Mint(1, bob), ErrSupplyOverflow)

	assert.ErrorIs(t, l.Burn(1, bob), ErrInsufficientBalance)
	assert.ErrorIs(t, l.Burn(0, alice), ErrNonPositiveAmount)
	require.NoError(t, l.Burn(math.MaxUint64-5, alice))
	tt.assertBalance(alice, 5)

	supply, err := l.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), supply)
}

func TestActivate(t *testing.T) {
	tt := newTokenTest(t)

	_, err := tt.GetCoinbaseThresholds()
	assert.ErrorIs(t, err, ErrTokenNotActivated)
	_, err = tt.GetCoinbaseAmounts()
	assert.ErrorIs(t, err, ErrTokenNotActivated)

	assert.ErrorIs(t, tt.Activate(alice, 10), ErrUnauthorized)
	tt.activate(10)
	assert.ErrorIs(t, tt.Activate(coreAddr, 20), ErrTokenAlreadyActivated)

	th, err := tt.GetCoinbaseThresholds()
	require.NoError(t, err)
	assert.Equal(t, coinbase.DefaultThresholds(10, thor.HalvingInterval), th)

	amounts, err := tt.GetCoinbaseAmounts()
	require.NoError(t, err)
	assert.Equal(t, coinbase.DefaultAmounts(), amounts)

	h, err := tt.GetActivationHeight()
	require.NoError(t, err)
	assert.Equal(t, uint32(10), h)
}

func TestUpdateCoinbase(t *testing.T) {
	tt := newTokenTest(t)

	valid := coinbase.Thresholds{100, 200, 300, 400, 500}
	assert.ErrorIs(t, tt.UpdateCoinbaseThresholds(authAddr, valid), ErrTokenNotActivated)
	tt.activate(10)

	assert.ErrorIs(t, tt.UpdateCoinbaseThresholds(alice, valid), ErrUnauthorized)
	assert.ErrorIs(t, tt.UpdateCoinbaseThresholds(authAddr, coinbase.Thresholds{100, 50, 300, 400, 500}), ErrInvalidCoinbaseThresholds)
	require.NoError(t, tt.UpdateCoinbaseThresholds(authAddr, valid))
	th, err := tt.GetCoinbaseThresholds()
	require.NoError(t, err)
	assert.Equal(t, valid, th)

	amounts := coinbase.Amounts{Bonus: 10, Amount1: 9, Amount2: 8, Amount3: 7, Amount4: 6, Amount5: 5, Default: 4}
	assert.ErrorIs(t, tt.UpdateCoinbaseAmounts(coreAddr, amounts), ErrUnauthorized)
	bad := amounts
	bad.Default = 0
	assert.ErrorIs(t, tt.UpdateCoinbaseAmounts(authAddr, bad), ErrInvalidCoinbaseAmounts)
	require.NoError(t, tt.UpdateCoinbaseAmounts(authAddr, amounts))
	got, err := tt.GetCoinbaseAmounts()
	require.NoError(t, err)
	assert.Equal(t, amounts, got)
}

func TestMetadata(t *testing.T) {
	tt := newTokenTest(t)
	require.NoError(t, tt.Initialize(&Metadata{Name: "newyorkcitycoin", Symbol: "NYC", Decimals: 6}))

	name, err := tt.GetName()
	require.NoError(t, err)
	assert.Equal(t, "newyorkcitycoin", name)
	symbol, _ := tt.GetSymbol()
	assert.Equal(t, "NYC", symbol)
	decimals, _ := tt.GetDecimals()
	assert.Equal(t, uint8(6), decimals)

	uri, err := tt.GetTokenURI()
	require.NoError(t, err)
	assert.Nil(t, uri)

	newURI := "https://cdn.citycoins.co/metadata/newyorkcitycoin.json"
	assert.ErrorIs(t, tt.SetTokenURI(alice, &newURI), ErrUnauthorized)
	require.NoError(t, tt.SetTokenURI(authAddr, &newURI))
	uri, _ = tt.GetTokenURI()
	require.NotNil(t, uri)
	assert.Equal(t, newURI, *uri)

	require.NoError(t, tt.SetTokenURI(authAddr, nil))
	uri, _ = tt.GetTokenURI()
	assert.Nil(t, uri)
	name, _ = tt.GetName()
	assert.Equal(t, "newyorkcitycoin", name)
}

func TestRoleGatedLedgerCalls(t *testing.T) {
	tt := newTokenTest(t)

	assert.ErrorIs(t, tt.Mint(10, alice, alice), ErrUnauthorized)
	require.NoError(t, tt.Mint(10, alice, coreAddr))

	assert.ErrorIs(t, tt.Transfer(5, alice, bob, bob, nil), ErrUnauthorized)
	require.NoError(t, tt.Transfer(5, alice, bob, alice, nil))

	assert.ErrorIs(t, tt.Burn(5, bob, alice), ErrUnauthorized)
	assert.ErrorIs(t, tt.Burn(6, bob, bob), ErrInsufficientBalance)
	require.NoError(t, tt.Burn(5, bob, bob))

	tt.assertBalance(alice, 5).assertBalance(bob, 0)
}

func TestConvertToV2(t *testing.T) {
	tt := newTokenTest(t)

	assert.ErrorIs(t, tt.ConvertToV2(alice), ErrV1BalanceNotFound)

	require.NoError(t, tt.legacy.Mint(500, alice))
	before := len(tt.env.Events())
	require.NoError(t, tt.ConvertToV2(alice))

	v1, err := tt.legacy.Balance(alice)
	require.NoError(t, err)
	assert.Zero(t, v1)
	tt.assertBalance(alice, 500*thor.V2ScaleFactor)

	events := tt.env.Events()[before:]
	require.Len(t, events, 3)
	assert.Equal(t, xenv.KindBurn, events[0].Kind)
	assert.Equal(t, legacyAddr, events[0].Contract)
	assert.Equal(t, uint64(500), events[0].Amount)
	assert.Equal(t, xenv.KindMint, events[1].Kind)
	assert.Equal(t, uint64(500_000_000), events[1].Amount)
	assert.Equal(t, xenv.KindPrint, events[2].Kind)
	assert.Equal(t, &xenv.ConversionNotice{BurnedV1: 500, MintedV2: 500_000_000}, events[2].Notice)

	assert.ErrorIs(t, tt.ConvertToV2(alice), ErrV1BalanceNotFound)
}
