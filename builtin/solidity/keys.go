// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"
)

type Key interface {
	Bytes() []byte
}

type Uint32Key uint32

func (k Uint32Key) Bytes() []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(k))
}

type StringKey string

func (k StringKey) Bytes() []byte {
	return []byte(k)
}

// PairKey composes two keys. Lengths are prefixed so distinct pairs never collide.
type PairKey[A Key, B Key] struct {
	First  A
	Second B
}

func (k PairKey[A, B]) Bytes() []byte {
	a, b := k.First.Bytes(), k.Second.Bytes()
	out := make([]byte, 0, 4+len(a)+len(b))
	out = binary.BigEndian.AppendUint16(out, uint16(len(a)))
	out = append(out, a...)
	out = binary.BigEndian.AppendUint16(out, uint16(len(b)))
	return append(out, b...)
}
