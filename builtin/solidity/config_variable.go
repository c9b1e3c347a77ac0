// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/citycoins/protocol/log"
	"github.com/citycoins/protocol/thor"
)

var logger = log.WithContext("pkg", "solidity")

// ConfigVariable is a protocol parameter with a compiled-in default.
// A non-zero value stored in the contract's slot of the same name overrides the default.
type ConfigVariable struct {
	slot        thor.Bytes32
	name        string
	value       uint32
	initialised bool
}

func NewConfigVariable(name string, defaultValue uint32) *ConfigVariable {
	return &ConfigVariable{
		slot:  thor.BytesToBytes32([]byte(name)),
		name:  name,
		value: defaultValue,
	}
}

func (c *ConfigVariable) Get() uint32 {
	return c.value
}

func (c *ConfigVariable) Name() string {
	return c.name
}

func (c *ConfigVariable) Slot() thor.Bytes32 {
	return c.slot
}

// Override loads the stored value once. Later calls are no-ops.
func (c *ConfigVariable) Override(ctx *Context) {
	if c.initialised {
		return
	}
	storage, err := ctx.state.GetStorage(ctx.address, c.slot)
	if err != nil {
		logger.Warn("failed to read config value", "slot", c.Name(), "error", err)
		return
	}
	num := new(big.Int).SetBytes(storage.Bytes())

	c.initialised = true

	if num.Uint64() != 0 {
		c.value = uint32(num.Uint64())
		logger.Debug("config override found", "slot", c.Name(), "value", c.Get())
	}
}

// Store writes value into the variable's slot so later overrides pick it up.
func (c *ConfigVariable) Store(ctx *Context, value uint32) {
	ctx.state.SetStorage(ctx.address, c.slot, thor.BytesToBytes32(big.NewInt(int64(value)).Bytes()))
	c.value = value
	c.initialised = true
}
