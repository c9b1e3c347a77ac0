// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"fmt"

	"github.com/citycoins/protocol/thor"
)

// EventKind is the kind of a side-effect notification.
type EventKind uint8

const (
	KindTransfer EventKind = iota + 1
	KindMint
	KindBurn
	KindPrint
)

var kindNames = map[EventKind]string{
	KindTransfer: "transfer",
	KindMint:     "mint",
	KindBurn:     "burn",
	KindPrint:    "print",
}

func (k EventKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown event kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EventKind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", text)
}

// Event is a side-effect notification emitted by a mutating call.
// Ledger events carry participants and amount, print events carry a notice and/or a memo.
type Event struct {
	Kind      EventKind    `json:"kind"`
	Contract  thor.Address `json:"contract"`
	Sender    thor.Address `json:"sender"`
	Recipient thor.Address `json:"recipient"`
	Amount    uint64       `json:"amount"`
	Memo      *string      `json:"memo,omitempty"`
	Notice    any          `json:"notice,omitempty"`
}

// StackingNotice is printed by a successful stack action.
type StackingNotice struct {
	FirstCycle uint32 `json:"firstCycle"`
	LastCycle  uint32 `json:"lastCycle"`
}

// ConversionNotice is printed by a successful legacy to v2 conversion.
type ConversionNotice struct {
	BurnedV1 uint64 `json:"burnedV1"`
	MintedV2 uint64 `json:"mintedV2"`
}
