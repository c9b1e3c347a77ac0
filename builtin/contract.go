// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/citycoins/protocol/builtin/solidity"
	"github.com/citycoins/protocol/state"
	"github.com/citycoins/protocol/thor"
	"github.com/citycoins/protocol/xenv"
)

type contract struct {
	name    string
	Address thor.Address
}

func newContract(name string) *contract {
	return &contract{
		name,
		thor.BytesToAddress([]byte(name)),
	}
}

func (c *contract) Name() string {
	return c.name
}

func (c *contract) context(st *state.State, env *xenv.Environment) *solidity.Context {
	return solidity.NewContext(c.Address, st, env)
}
