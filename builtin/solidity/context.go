// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/citycoins/protocol/state"
	"github.com/citycoins/protocol/thor"
	"github.com/citycoins/protocol/xenv"
)

// Context binds a contract address to the state and the environment of the current call.
type Context struct {
	address thor.Address
	state   *state.State
	env     *xenv.Environment
}

func NewContext(address thor.Address, state *state.State, env *xenv.Environment) *Context {
	return &Context{
		address: address,
		state:   state,
		env:     env,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// BlockNumber returns the current block height, or 0 outside of a call.
func (c *Context) BlockNumber() uint32 {
	if c.env == nil {
		return 0
	}
	return c.env.BlockNumber()
}

// Emit records an event on behalf of the contract.
func (c *Context) Emit(ev *xenv.Event) {
	if c.env == nil {
		return
	}
	ev.Contract = c.address
	c.env.Emit(ev)
}

// Print emits a print event carrying a notice and an optional memo.
func (c *Context) Print(notice any, memo *string) {
	c.Emit(&xenv.Event{Kind: xenv.KindPrint, Notice: notice, Memo: memo})
}

// Revision marks a point in both the state journal and the event log.
type Revision struct {
	state  int
	events int
}

// Checkpoint takes a revision that Revert can roll back to.
func (c *Context) Checkpoint() Revision {
	rev := Revision{state: c.state.NewCheckpoint()}
	if c.env != nil {
		rev.events = c.env.EventCount()
	}
	return rev
}

// Revert drops the storage writes and the events made since rev.
func (c *Context) Revert(rev Revision) {
	c.state.RevertTo(rev.state)
	if c.env != nil {
		c.env.TruncateEvents(rev.events)
	}
}

// At returns a context for another contract sharing the same state and environment.
func (c *Context) At(address thor.Address) *Context {
	return NewContext(address, c.state, c.env)
}
