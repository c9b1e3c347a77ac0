// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/citycoins/protocol/thor"
)

// BlockContext is the block the current call executes in.
type BlockContext struct {
	Number uint32
}

// Environment is the execution environment of a single entry-point call.
// It exposes the block clock and collects the events emitted by the call.
type Environment struct {
	blockCtx *BlockContext
	sender   thor.Address
	events   []*Event
}

// New create a new execution environment.
func New(blockCtx *BlockContext, sender thor.Address) *Environment {
	return &Environment{
		blockCtx: blockCtx,
		sender:   sender,
	}
}

func (env *Environment) BlockContext() *BlockContext { return env.blockCtx }

// BlockNumber returns the current block height.
func (env *Environment) BlockNumber() uint32 { return env.blockCtx.Number }

// Sender returns the account that submitted the call.
func (env *Environment) Sender() thor.Address { return env.sender }

// Emit appends an event to the call's event log.
func (env *Environment) Emit(ev *Event) {
	env.events = append(env.events, ev)
}

// Events returns events emitted so far.
func (env *Environment) Events() []*Event { return env.events }

// EventCount returns the number of emitted events, used as a revision for TruncateEvents.
func (env *Environment) EventCount() int { return len(env.events) }

// TruncateEvents drops events emitted after the given revision.
func (env *Environment) TruncateEvents(rev int) {
	if rev < len(env.events) {
		env.events = env.events[:rev]
	}
}
