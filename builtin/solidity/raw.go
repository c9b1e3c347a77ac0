// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/citycoins/protocol/thor"
)

// Raw is a single storage slot holding an rlp encoded value, similar to a state variable in Solidity.
type Raw[V any] struct {
	context *Context
	pos     thor.Bytes32
}

func NewRaw[V any](context *Context, pos thor.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, pos: pos}
}

func (r *Raw[V]) Get() (value V, err error) {
	err = r.context.state.DecodeStorage(r.context.address, r.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		if isPointer[V]() {
			value = reflect.New(reflect.TypeOf(&value).Elem().Elem()).Interface().(V)
			return rlp.DecodeBytes(raw, value)
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (r *Raw[V]) Set(value V) error {
	return r.context.state.EncodeStorage(r.context.address, r.pos, func() ([]byte, error) {
		if isNil(value) {
			return nil, nil
		}
		data, err := rlp.EncodeToBytes(value)
		return data, errors.Wrap(err, "encode slot value")
	})
}

// Counter is a uint32 sequence slot, the last id handed out.
type Counter struct {
	*Raw[uint32]
}

func NewCounter(context *Context, pos thor.Bytes32) *Counter {
	return &Counter{NewRaw[uint32](context, pos)}
}

// Next increments the counter and returns the new value.
func (c *Counter) Next() (uint32, error) {
	v, err := c.Get()
	if err != nil {
		return 0, err
	}
	v++
	return v, c.Set(v)
}
