// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/citycoins/protocol/builtin"
	"github.com/citycoins/protocol/builtin/coinbase"
	"github.com/citycoins/protocol/builtin/reverts"
	"github.com/citycoins/protocol/genesis"
	"github.com/citycoins/protocol/runtime"
	"github.com/citycoins/protocol/thor"
)

// Scenario is an ordered list of steps. A step either moves the clock, commits, or makes a call.
type Scenario struct {
	Steps []Step `yaml:"steps"`
}

type Step struct {
	Advance uint32 `yaml:"advance,omitempty"`
	Commit  bool   `yaml:"commit,omitempty"`
	Sender  string `yaml:"sender,omitempty"`
	Call    string `yaml:"call,omitempty"`
	Args    Args   `yaml:"args,omitempty"`
	// Expect is the name of the revert the call must fail with.
	Expect string `yaml:"expect,omitempty"`
}

// Args are the arguments of every call. Principals are hex addresses or names known to the replayer.
type Args struct {
	Amount     uint64   `yaml:"amount,omitempty"`
	LockPeriod uint32   `yaml:"lockPeriod,omitempty"`
	Height     uint32   `yaml:"height,omitempty"`
	Cycle      uint32   `yaml:"cycle,omitempty"`
	Memo       *string  `yaml:"memo,omitempty"`
	Job        uint32   `yaml:"job,omitempty"`
	Name       string   `yaml:"name,omitempty"`
	Value      uint64   `yaml:"value,omitempty"`
	To         string   `yaml:"to,omitempty"`
	Target     string   `yaml:"target,omitempty"`
	Core       string   `yaml:"core,omitempty"`
	NewCore    string   `yaml:"newCore,omitempty"`
	Principal  string   `yaml:"principal,omitempty"`
	Wallet     string   `yaml:"wallet,omitempty"`
	URI        *string  `yaml:"uri,omitempty"`
	Thresholds []uint64 `yaml:"thresholds,omitempty"`
	Amounts    []uint64 `yaml:"amounts,omitempty"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "unmarshal scenario")
	}
	for i, step := range s.Steps {
		if step.Call == "" {
			continue
		}
		if _, ok := calls[step.Call]; !ok {
			return nil, errors.Errorf("step %d: unknown call %q (known: %s)", i, step.Call, strings.Join(CallNames(), ", "))
		}
	}
	return &s, nil
}

// Outcome is printed as one JSON line per call.
type Outcome struct {
	Step    int              `json:"step"`
	Call    string           `json:"call"`
	Result  any              `json:"result,omitempty"`
	Receipt *runtime.Receipt `json:"receipt,omitempty"`
	Error   string           `json:"error,omitempty"`
	Code    uint32           `json:"code,omitempty"`
}

type replayer struct {
	rt    *runtime.Runtime
	names map[string]thor.Address
	enc   *json.Encoder
}

func newReplayer(rt *runtime.Runtime, cfg *genesis.Config, out io.Writer) *replayer {
	names := map[string]thor.Address{
		"city-wallet":        cfg.CityWallet,
		"legacy-city-wallet": cfg.LegacyCityWallet,
		"ustx":               builtin.Ustx.Address,
		"token-v1":           builtin.LegacyToken.Address,
		"core-v1":            builtin.LegacyCore.Address,
		"token":              builtin.Token.Address,
		"core":               builtin.Core.Address,
		"auth":               builtin.Auth.Address,
	}
	for i, addr := range cfg.Approvers {
		names[fmt.Sprintf("approver-%d", i+1)] = addr
	}
	for i, acc := range cfg.Accounts {
		names[fmt.Sprintf("account-%d", i+1)] = acc.Address
	}
	return &replayer{rt: rt, names: names, enc: json.NewEncoder(out)}
}

// principal resolves a name or a hex address. Unknown names map to a fresh address derived from
// the name, so scenarios can introduce new participants.
func (r *replayer) principal(s string) (thor.Address, error) {
	if s == "" {
		return thor.Address{}, nil
	}
	if addr, ok := r.names[s]; ok {
		return addr, nil
	}
	if strings.HasPrefix(s, "0x") {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return thor.Address{}, errors.Wrapf(err, "principal %q", s)
		}
		return *addr, nil
	}
	return thor.BytesToAddress([]byte(s)), nil
}

func (r *replayer) Run(s *Scenario) error {
	for i, step := range s.Steps {
		if step.Advance > 0 {
			r.rt.Advance(step.Advance)
		}
		if step.Call != "" {
			if err := r.call(i, &step); err != nil {
				return err
			}
		}
		if step.Commit {
			if err := r.rt.Commit(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *replayer) call(i int, step *Step) error {
	sender, err := r.principal(step.Sender)
	if err != nil {
		return errors.Wrapf(err, "step %d", i)
	}
	fn := calls[step.Call]
	out := Outcome{Step: i, Call: step.Call}

	var result any
	receipt, err := r.rt.Exec(sender, func(p *builtin.Protocol) error {
		var err error
		result, err = fn(r, p, sender, &step.Args)
		return err
	})
	switch {
	case err == nil:
		out.Receipt, out.Result = receipt, result
	case reverts.IsRevert(err):
		code, _ := reverts.Code(err)
		out.Error, out.Code = err.Error(), code
	default:
		return errors.Wrapf(err, "step %d (%s)", i, step.Call)
	}
	if err := r.enc.Encode(&out); err != nil {
		return err
	}

	if step.Expect != "" {
		var rev *reverts.Error
		if !errors.As(err, &rev) || rev.Name != step.Expect {
			return errors.Errorf("step %d (%s): expected %s, got %v", i, step.Call, step.Expect, err)
		}
	}
	return nil
}

// CallNames lists the supported calls.
func CallNames() []string {
	names := make([]string, 0, len(calls))
	for name := range calls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func thresholdsArg(a *Args) (coinbase.Thresholds, error) {
	var t coinbase.Thresholds
	if len(a.Thresholds) != len(t) {
		return t, errors.Errorf("want %d thresholds, got %d", len(t), len(a.Thresholds))
	}
	copy(t[:], a.Thresholds)
	return t, nil
}

func amountsArg(a *Args) (coinbase.Amounts, error) {
	if len(a.Amounts) != 7 {
		return coinbase.Amounts{}, errors.Errorf("want 7 amounts, got %d", len(a.Amounts))
	}
	v := a.Amounts
	return coinbase.Amounts{
		Bonus:   v[0],
		Amount1: v[1],
		Amount2: v[2],
		Amount3: v[3],
		Amount4: v[4],
		Amount5: v[5],
		Default: v[6],
	}, nil
}
