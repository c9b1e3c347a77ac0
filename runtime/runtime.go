// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes protocol entry points one at a time. Every call either applies
// all of its writes and events or none of them.
package runtime

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/citycoins/protocol/builtin"
	"github.com/citycoins/protocol/builtin/reverts"
	"github.com/citycoins/protocol/genesis"
	"github.com/citycoins/protocol/kv"
	"github.com/citycoins/protocol/log"
	"github.com/citycoins/protocol/state"
	"github.com/citycoins/protocol/thor"
	"github.com/citycoins/protocol/xenv"
)

var logger = log.WithContext("pkg", "runtime")

const metaBucket kv.Bucket = "m"

var (
	genesisKey = []byte("genesis")
	headKey    = []byte("head")
)

// Receipt is the outcome of a successful call.
type Receipt struct {
	BlockNumber uint32        `json:"blockNumber"`
	Sender      thor.Address  `json:"sender"`
	Events      []*xenv.Event `json:"events"`
}

// Runtime owns the protocol state and the block clock.
type Runtime struct {
	db    kv.GetPutter
	state *state.State
	block xenv.BlockContext
}

// New opens the protocol state in db. The genesis config is applied on first use only.
func New(db kv.GetPutter, gen *genesis.Config) (*Runtime, error) {
	rt := &Runtime{
		db:    db,
		state: state.New(db),
	}
	meta := metaBucket.NewGetter(db)
	initialized, err := meta.Has(genesisKey)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis marker")
	}
	if initialized {
		head, err := meta.Get(headKey)
		if err != nil {
			return nil, errors.Wrap(err, "read head")
		}
		rt.block.Number = binary.BigEndian.Uint32(head)
		logger.Info("state loaded", "head", rt.block.Number)
		return rt, nil
	}

	if gen == nil {
		gen = genesis.Default()
	}
	if err := gen.Validate(); err != nil {
		return nil, errors.Wrap(err, "genesis")
	}
	if err := gen.Builder().Build(rt.state); err != nil {
		return nil, errors.Wrap(err, "build genesis")
	}
	if err := metaBucket.NewPutter(db).Put(genesisKey, []byte{1}); err != nil {
		return nil, errors.Wrap(err, "write genesis marker")
	}
	if err := rt.Commit(); err != nil {
		return nil, err
	}
	logger.Info("genesis applied", "approvers", len(gen.Approvers), "accounts", len(gen.Accounts))
	return rt, nil
}

// BlockNumber returns the height calls currently execute at.
func (rt *Runtime) BlockNumber() uint32 { return rt.block.Number }

// NextBlock moves the clock one block forward.
func (rt *Runtime) NextBlock() uint32 {
	return rt.Advance(1)
}

// Advance moves the clock n blocks forward.
func (rt *Runtime) Advance(n uint32) uint32 {
	rt.block.Number += n
	return rt.block.Number
}

// Exec runs fn as a call from sender in the current block.
// If fn fails every write it made is reverted and its events are dropped.
func (rt *Runtime) Exec(sender thor.Address, fn func(p *builtin.Protocol) error) (*Receipt, error) {
	blockCtx := rt.block
	env := xenv.New(&blockCtx, sender)
	rev := rt.state.NewCheckpoint()
	if err := fn(builtin.New(rt.state, env)); err != nil {
		rt.state.RevertTo(rev)
		if reverts.IsRevert(err) {
			metricCalls().AddWithLabel(1, map[string]string{"result": "reverted"})
			logger.Debug("call reverted", "sender", sender, "block", blockCtx.Number, "error", err)
		} else {
			metricCalls().AddWithLabel(1, map[string]string{"result": "failed"})
			logger.Error("call failed", "sender", sender, "block", blockCtx.Number, "error", err)
		}
		return nil, err
	}
	metricCalls().AddWithLabel(1, map[string]string{"result": "success"})
	metricEvents().Add(int64(env.EventCount()))
	return &Receipt{
		BlockNumber: blockCtx.Number,
		Sender:      sender,
		Events:      env.Events(),
	}, nil
}

// View runs fn against the current state and discards whatever it writes.
func (rt *Runtime) View(fn func(p *builtin.Protocol) error) error {
	blockCtx := rt.block
	rev := rt.state.NewCheckpoint()
	defer rt.state.RevertTo(rev)
	return fn(builtin.New(rt.state, xenv.New(&blockCtx, thor.Address{})))
}

// Commit flushes the pending writes and the block clock to the database.
func (rt *Runtime) Commit() error {
	stage := rt.state.Stage()
	n := stage.Len()
	if err := stage.Commit(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	var head [4]byte
	binary.BigEndian.PutUint32(head[:], rt.block.Number)
	if err := metaBucket.NewPutter(rt.db).Put(headKey, head[:]); err != nil {
		return errors.Wrap(err, "write head")
	}
	metricCommits().Add(1)
	metricHead().Set(int64(rt.block.Number))
	logger.Debug("state committed", "head", rt.block.Number, "changes", n)

	changed, hit, miss := rt.state.CacheStats()
	metricCacheHitMiss().SetWithLabel(hit, map[string]string{"event": "hit"})
	metricCacheHitMiss().SetWithLabel(miss, map[string]string{"event": "miss"})
	if changed {
		logger.Debug("state cache stats", "hit", hit, "miss", miss)
	}
	return nil
}
