// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/citycoins/protocol/builtin"
	"github.com/citycoins/protocol/builtin/token"
	"github.com/citycoins/protocol/log"
	"github.com/citycoins/protocol/state"
)

var logger = log.WithContext("pkg", "genesis")

// Builder helper to build the genesis state.
type Builder struct {
	stateProcs []func(p *builtin.Protocol) error
}

// State add a state process.
func (b *Builder) State(proc func(p *builtin.Protocol) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Build runs every state process against st. Nothing is written if one of them fails.
func (b *Builder) Build(st *state.State) error {
	p := builtin.New(st, nil)
	rev := st.NewCheckpoint()
	for i, proc := range b.stateProcs {
		if err := proc(p); err != nil {
			st.RevertTo(rev)
			return errors.Wrapf(err, "state process %d", i)
		}
	}
	return nil
}

// Builder returns the builder applying c.
func (c *Config) Builder() *Builder {
	return new(Builder).
		State(func(p *builtin.Protocol) error {
			return p.Auth().Initialize(c.Approvers, c.Quorum, c.CityWallet)
		}).
		State(func(p *builtin.Protocol) error {
			if err := p.Auth().RegisterLegacyCoreContract(builtin.LegacyCore.Address, 0); err != nil {
				return err
			}
			return p.LegacyCore().Initialize(c.LegacyCityWallet)
		}).
		State(func(p *builtin.Protocol) error {
			tok := p.Token()
			tok.Configure(c.Token.BonusPeriod, c.Token.HalvingInterval, c.Token.ScaleFactor)
			return tok.Initialize(&token.Metadata{
				Name:     c.Token.Name,
				Symbol:   c.Token.Symbol,
				Decimals: c.Token.Decimals,
				URI:      c.Token.URI,
			})
		}).
		State(func(p *builtin.Protocol) error {
			if err := p.Auth().RegisterCoreContract(builtin.Core.Address); err != nil {
				return err
			}
			return p.CoreAt(builtin.Core.Address).Configure(c.Core, c.CityWallet)
		}).
		State(func(p *builtin.Protocol) error {
			for _, acc := range c.Accounts {
				if acc.Ustx > 0 {
					if err := p.Ustx().Mint(acc.Ustx, acc.Address); err != nil {
						return errors.Wrapf(err, "fund %v", acc.Address)
					}
				}
				if acc.Legacy > 0 {
					if err := p.LegacyToken().Mint(acc.Legacy, acc.Address); err != nil {
						return errors.Wrapf(err, "fund legacy %v", acc.Address)
					}
				}
			}
			logger.Debug("genesis accounts funded", "count", len(c.Accounts))
			return nil
		})
}
