// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin wires the protocol contracts together over one state and execution environment.
package builtin

import (
	"github.com/citycoins/protocol/builtin/auth"
	"github.com/citycoins/protocol/builtin/bridge"
	"github.com/citycoins/protocol/builtin/core"
	"github.com/citycoins/protocol/builtin/token"
	"github.com/citycoins/protocol/state"
	"github.com/citycoins/protocol/thor"
	"github.com/citycoins/protocol/xenv"
)

// Builtin contracts.
var (
	Ustx        = newContract("ustx")
	LegacyToken = newContract("citycoin-token-v1")
	LegacyCore  = newContract("citycoin-core-v1")
	Token       = newContract("citycoin-token-v2")
	Core        = newContract("citycoin-core-v2")
	Auth        = newContract("citycoin-auth-v2")
)

// Protocol binds every contract to the same state and environment. It is cheap to build
// and meant to live for a single call.
type Protocol struct {
	state *state.State
	env   *xenv.Environment

	ustx        *token.Ledger
	legacyToken *bridge.LegacyToken
	legacyCore  *bridge.LegacyCore
	token       *token.Token
	auth        *auth.Auth
	cores       map[thor.Address]*core.Core
}

// New binds the protocol. env may be nil outside of a call, events are then dropped.
func New(st *state.State, env *xenv.Environment) *Protocol {
	p := &Protocol{
		state: st,
		env:   env,
		cores: make(map[thor.Address]*core.Core),
	}
	p.ustx = token.NewLedger(Ustx.context(st, env))
	legacy := token.NewLedger(LegacyToken.context(st, env))
	p.legacyToken = bridge.NewLegacyToken(legacy)
	p.legacyCore = bridge.NewLegacyCore(LegacyCore.context(st, env), Auth.Address)
	p.auth = auth.New(Auth.context(st, env), &resolver{p})
	p.token = token.New(Token.context(st, env), legacy, p.auth, Auth.Address)
	return p
}

func (p *Protocol) State() *state.State { return p.state }

// Env returns nil outside of a call.
func (p *Protocol) Env() *xenv.Environment { return p.env }

// Ustx is the native asset ledger miners commit with and stackers are paid in.
func (p *Protocol) Ustx() *token.Ledger { return p.ustx }

func (p *Protocol) LegacyToken() *bridge.LegacyToken { return p.legacyToken }

func (p *Protocol) LegacyCore() *bridge.LegacyCore { return p.legacyCore }

func (p *Protocol) Token() *token.Token { return p.token }

func (p *Protocol) Auth() *auth.Auth { return p.auth }

// CoreAt binds a core contract at addr. Every core version shares the same code.
func (p *Protocol) CoreAt(addr thor.Address) *core.Core {
	if c, ok := p.cores[addr]; ok {
		return c
	}
	ctx := Core.context(p.state, p.env).At(addr)
	c := core.New(ctx, p.token, p.ustx, p.auth, Auth.Address)
	p.cores[addr] = c
	return c
}

// Core returns the core the auth registry points at, or the genesis core before any activation.
func (p *Protocol) Core() (*core.Core, error) {
	addr, err := p.auth.GetActiveCoreContract()
	if err != nil {
		return nil, err
	}
	if addr.IsZero() {
		addr = Core.Address
	}
	return p.CoreAt(addr), nil
}

// resolver lets the auth contract reach the contracts it governs.
type resolver struct {
	p *Protocol
}

func (r *resolver) Core(addr thor.Address) (auth.CoreContract, bool) {
	switch addr {
	case LegacyCore.Address:
		return r.p.legacyCore, true
	case Ustx.Address, LegacyToken.Address, Token.Address, Auth.Address:
		return nil, false
	}
	return r.p.CoreAt(addr), true
}

func (r *resolver) Token(addr thor.Address) (auth.CityToken, bool) {
	if addr != Token.Address {
		return nil, false
	}
	return r.p.token, true
}
