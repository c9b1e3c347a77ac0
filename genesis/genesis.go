// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/citycoins/protocol/builtin/core"
	"github.com/citycoins/protocol/thor"
)

// Config describes the initial protocol state. Contract addresses are fixed by the builtin package.
type Config struct {
	Approvers        []thor.Address `yaml:"approvers"`
	Quorum           uint32         `yaml:"quorum"`
	CityWallet       thor.Address   `yaml:"cityWallet"`
	LegacyCityWallet thor.Address   `yaml:"legacyCityWallet"`
	Core             core.Params    `yaml:"core"`
	Token            TokenConfig    `yaml:"token"`
	Accounts         []Account      `yaml:"accounts"`
}

// TokenConfig holds the v2 token metadata and schedule parameters.
type TokenConfig struct {
	Name            string `yaml:"name"`
	Symbol          string `yaml:"symbol"`
	Decimals        uint8  `yaml:"decimals"`
	URI             string `yaml:"uri,omitempty"`
	BonusPeriod     uint32 `yaml:"bonusPeriod"`
	HalvingInterval uint32 `yaml:"halvingInterval"`
	ScaleFactor     uint32 `yaml:"scaleFactor"`
}

// Account is an initial allocation of native ustx and legacy tokens.
type Account struct {
	Address thor.Address `yaml:"address"`
	Ustx    uint64       `yaml:"ustx"`
	Legacy  uint64       `yaml:"legacy,omitempty"`
}

// DevAccounts are the accounts funded by Default.
var DevAccounts = func() []thor.Address {
	accs := make([]thor.Address, 10)
	for i := range accs {
		accs[i] = thor.BytesToAddress([]byte(fmt.Sprintf("dev-account-%d", i+1)))
	}
	return accs
}()

// Default returns a working configuration with compiled-in parameters and funded dev accounts.
func Default() *Config {
	approvers := make([]thor.Address, thor.ApproverCount)
	for i := range approvers {
		approvers[i] = thor.BytesToAddress([]byte(fmt.Sprintf("approver-%d", i+1)))
	}
	accounts := make([]Account, 0, len(DevAccounts))
	for _, addr := range DevAccounts {
		accounts = append(accounts, Account{Address: addr, Ustx: 1_000_000_000_000, Legacy: 1_000_000})
	}
	return &Config{
		Approvers:        approvers,
		Quorum:           thor.Quorum,
		CityWallet:       thor.BytesToAddress([]byte("city-wallet")),
		LegacyCityWallet: thor.BytesToAddress([]byte("legacy-city-wallet")),
		Core: core.Params{
			RewardCycleLength:    thor.RewardCycleLength,
			ActivationDelay:      thor.ActivationDelay,
			ActivationThreshold:  thor.ActivationThreshold,
			TokenRewardMaturity:  thor.TokenRewardMaturity,
			StackerPayoutPercent: uint32(thor.StackerPayoutPercent),
		},
		Token: TokenConfig{
			Name:            "CityCoin",
			Symbol:          "CITY",
			Decimals:        6,
			BonusPeriod:     thor.BonusPeriodLength,
			HalvingInterval: thor.HalvingInterval,
			ScaleFactor:     uint32(thor.V2ScaleFactor),
		},
		Accounts: accounts,
	}
}

// Load reads a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return Parse(data)
}

// Parse decodes and validates a YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal genesis")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) Validate() error {
	if len(c.Approvers) == 0 {
		return errors.New("no approvers")
	}
	if c.Quorum == 0 || int(c.Quorum) > len(c.Approvers) {
		return errors.Errorf("quorum %d out of range for %d approvers", c.Quorum, len(c.Approvers))
	}
	if c.CityWallet.IsZero() {
		return errors.New("city wallet not set")
	}
	if c.Core.StackerPayoutPercent == 0 || c.Core.StackerPayoutPercent > 100 {
		return errors.Errorf("stacker payout percent %d not in 1..100", c.Core.StackerPayoutPercent)
	}
	seen := make(map[thor.Address]bool, len(c.Accounts))
	for _, acc := range c.Accounts {
		if seen[acc.Address] {
			return errors.Errorf("duplicate account %v", acc.Address)
		}
		seen[acc.Address] = true
	}
	return nil
}
