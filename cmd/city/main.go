// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/citycoins/protocol/genesis"
	"github.com/citycoins/protocol/log"
	"github.com/citycoins/protocol/lvldb"
	"github.com/citycoins/protocol/metrics"
	"github.com/citycoins/protocol/runtime"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "city")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "city",
		Usage:   "CityCoin protocol tool",
		Commands: []cli.Command{
			{
				Name:   "genesis",
				Usage:  "print the default genesis config",
				Flags:  []cli.Flag{outputFlag},
				Action: genesisAction,
			},
			{
				Name:  "replay",
				Usage: "replay a scenario of protocol calls and print a receipt per call",
				Flags: []cli.Flag{
					configFlag,
					scenarioFlag,
					dataDirFlag,
					cacheFlag,
					metricsFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: replayAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogger(ctx *cli.Context) {
	level := new(slog.LevelVar)
	level.Set(log.FromVerbosity(ctx.Int(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) || !isatty.IsTerminal(os.Stderr.Fd()) {
		handler = log.JSONHandlerWithLevel(os.Stderr, level)
	} else {
		handler = log.LogfmtHandlerWithLevel(os.Stderr, level)
	}
	log.SetDefault(log.NewLogger(handler))
}

func genesisAction(ctx *cli.Context) error {
	data, err := genesis.Default().Marshal()
	if err != nil {
		return err
	}
	var w io.Writer = os.Stdout
	if path := ctx.String(outputFlag.Name); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "create output")
		}
		defer f.Close()
		w = f
	}
	_, err = w.Write(data)
	return err
}

func replayAction(ctx *cli.Context) error {
	initLogger(ctx)
	if ctx.Bool(metricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	cfg := genesis.Default()
	if path := ctx.String(configFlag.Name); path != "" {
		var err error
		if cfg, err = genesis.Load(path); err != nil {
			return err
		}
	}
	path := ctx.String(scenarioFlag.Name)
	if path == "" {
		return errors.New("--scenario is required")
	}
	scenario, err := LoadScenario(path)
	if err != nil {
		return err
	}

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		logger.Info("closing state database...")
		db.Close()
	}()

	rt, err := runtime.New(db, cfg)
	if err != nil {
		return err
	}
	if err := newReplayer(rt, cfg, os.Stdout).Run(scenario); err != nil {
		return err
	}
	if err := rt.Commit(); err != nil {
		return err
	}
	if ctx.Bool(metricsFlag.Name) {
		return metrics.Write(os.Stderr)
	}
	return nil
}

func openDB(ctx *cli.Context) (*lvldb.LevelDB, error) {
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		return lvldb.NewMem()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}
	cacheMB := ctx.Int(cacheFlag.Name)
	return lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: 64,
	})
}
