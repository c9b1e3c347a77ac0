// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a genesis YAML file (built-in defaults when omitted)",
	}
	scenarioFlag = cli.StringFlag{
		Name:  "scenario",
		Usage: "path to the YAML scenario to replay",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory for the state database (in memory when omitted)",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 64,
		Usage: "megabytes of ram allocated to the state database",
	}
	metricsFlag = cli.BoolFlag{
		Name:  "metrics",
		Usage: "dump protocol metrics in the prometheus text format after the replay",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format even on a terminal",
	}
	outputFlag = cli.StringFlag{
		Name:  "output",
		Usage: "file to write the genesis to (stdout when omitted)",
	}
)
