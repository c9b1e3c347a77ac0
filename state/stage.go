// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// Stage abstracts changes pending on the kv store.
type Stage struct {
	state   *State
	changes map[storageKey]rlp.RawValue
	order   []storageKey
}

// Len returns count of changed slots.
func (s *Stage) Len() int {
	return len(s.order)
}

// Commit writes all changes in one batch and resets the journal.
// Checkpoints taken before commit are no longer valid afterwards.
func (s *Stage) Commit() error {
	batch := s.state.db.NewBatch()
	putter := storageBucket.NewPutter(batch)
	for _, k := range s.order {
		v := s.changes[k]
		var err error
		if len(v) == 0 {
			err = putter.Delete(k.dbKey())
		} else {
			err = putter.Put(k.dbKey(), v)
		}
		if err != nil {
			return errors.Wrap(err, "stage storage change")
		}
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	for _, k := range s.order {
		s.state.cache.Add(k, s.changes[k])
	}
	s.state.reset()
	return nil
}
