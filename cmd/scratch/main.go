// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// scratch 玩一局刮刮樂，結果文件寫到 stdout。
//
//	scratch --config config.json --betting-amount 100
//	scratch --config config.json --betting-amount 100 --replay <start_b64u>
//
// 任何失敗都在 stderr 印出 "error: ..."，參數錯誤結束碼 2，其餘 1，stdout 不輸出任何內容。
package main

import (
	"encoding/json"
	"flag"
	"io"
	"os"

	"github.com/zintix-labs/scratchlab"
	"github.com/zintix-labs/scratchlab/dto"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/internal/cli"
	"github.com/zintix-labs/scratchlab/sdk/calc"
	"github.com/zintix-labs/scratchlab/spec"
)

type config struct {
	cli.Env
	path   string
	bet    float64
	replay string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		return cli.Fail(stderr, err)
	}
	return cli.Fail(stderr, play(cfg, stdout, stderr))
}

func parseConfig(args []string, stderr io.Writer) (config, error) {
	e, err := cli.ParseEnv()
	if err != nil {
		return config{}, err
	}
	cfg := config{Env: e}
	fs := flag.NewFlagSet("scratch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.path, "config", "", "game config file (.json|.yaml|.yml, optionally .zst/.gz)")
	fs.Float64Var(&cfg.bet, "betting-amount", 0, "bet amount, must be > 0")
	fs.StringVar(&cfg.replay, "replay", "", "start_b64u of a previous play to reproduce it")
	cfg.Env.Bind(fs)
	if err := cli.Parse(fs, args); err != nil {
		return config{}, err
	}
	if fs.NArg() > 0 {
		return config{}, errs.Argumentf("unexpected arguments %v", fs.Args())
	}
	if cfg.path == "" {
		return config{}, errs.Argumentf("missing --config")
	}
	if !calc.ValidBet(cfg.bet) {
		return config{}, errs.Argumentf("--betting-amount must be a positive finite number, got %v", cfg.bet)
	}
	return cfg, nil
}

func play(cfg config, stdout, stderr io.Writer) error {
	common, err := cfg.Env.Resolve()
	if err != nil {
		return err
	}
	log := common.Logger(stderr)

	gc, err := spec.LoadFile(cfg.path)
	if err != nil {
		return err
	}
	lab, err := scratchlab.New(common.Factory, gc, scratchlab.Options{Sampler: common.Sampler, Log: log})
	if err != nil {
		return err
	}
	var m *scratchlab.Machine
	if common.Seed < 0 {
		m, err = lab.NewMachine()
	} else {
		m, err = lab.NewMachineWithSeed(common.Seed)
	}
	if err != nil {
		return err
	}

	res, st, err := m.PlayRequest(dto.PlayRequest{Bet: cfg.bet, StartB64U: cfg.replay})
	if err != nil {
		return err
	}
	log.Info("play state", "seed", m.Seed(), "start_b64u", st.StartCoreSnapB64U, "after_b64u", st.AfterCoreSnapB64U)

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return errs.Wrap(err, "encode game result")
	}
	_, err = stdout.Write(append(out, '\n'))
	return err
}
