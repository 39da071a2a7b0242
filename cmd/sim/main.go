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

// sim 蒙地卡羅模擬：跑大量局數並輸出 RTP 報表。
//
//	sim                                   # 內建示範設定，表格輸出
//	sim -config game.yaml -rounds 1000000 -workers 8
//	sim -format json -o build/report.json.zst
//	sim -p cpu                            # 寫出 build/profiling/cpu.pprof
package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zintix-labs/scratchlab"
	"github.com/zintix-labs/scratchlab/demo/demo_configs"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/internal/cli"
	"github.com/zintix-labs/scratchlab/logger"
	"github.com/zintix-labs/scratchlab/sdk/calc"
	"github.com/zintix-labs/scratchlab/sdk/perf"
	"github.com/zintix-labs/scratchlab/spec"
	"github.com/zintix-labs/scratchlab/stats"
)

type config struct {
	cli.Env
	path     string
	bet      float64
	rounds   int
	workers  int
	format   string
	output   string
	pprof    string
	progress bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		return cli.Fail(stderr, err)
	}
	return cli.Fail(stderr, simulate(cfg, stdout, stderr))
}

func parseConfig(args []string, stderr io.Writer) (config, error) {
	e, err := cli.ParseEnv()
	if err != nil {
		return config{}, err
	}
	cfg := config{Env: e}
	fs := flag.NewFlagSet("sim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.path, "config", "", "game config file, embedded demo when empty")
	fs.Float64Var(&cfg.bet, "bet", 1, "bet per round")
	fs.IntVar(&cfg.rounds, "rounds", 1_000_000, "rounds per worker")
	fs.IntVar(&cfg.workers, "workers", runtime.NumCPU(), "number of workers")
	fs.StringVar(&cfg.format, "format", "table", "stdout format: table|json|yaml")
	fs.StringVar(&cfg.output, "o", "", "also save the report (.json|.yaml, optionally .zst)")
	fs.StringVar(&cfg.pprof, "p", "", "pprof: '', cpu, heap, allocs")
	fs.BoolVar(&cfg.progress, "progress", true, "show progress bar on stderr")
	cfg.Env.Bind(fs)
	if err := cli.Parse(fs, args); err != nil {
		return config{}, err
	}
	if !calc.ValidBet(cfg.bet) {
		return config{}, errs.Argumentf("-bet must be a positive finite number, got %v", cfg.bet)
	}
	if cfg.rounds < 1 || cfg.workers < 1 {
		return config{}, errs.Argumentf("-rounds and -workers must be > 0")
	}
	switch cfg.format {
	case "table", "json", "yaml":
	default:
		return config{}, errs.Argumentf("unknown -format %q, want table|json|yaml", cfg.format)
	}
	if cfg.output != "" {
		if _, err := stats.RenderFor(cfg.output); err != nil {
			return config{}, err
		}
	}
	return cfg, nil
}

func loadConfig(path string) (*spec.GameConfig, string, error) {
	if path == "" {
		gc, err := spec.LoadFS(demo_configs.FS, demo_configs.JSON)
		return gc, "demo", err
	}
	gc, err := spec.LoadFile(path)
	return gc, configName(path), err
}

// configName game.json.zst -> game
func configName(path string) string {
	name := filepath.Base(path)
	for _, ext := range []string{".zst", ".gz"} {
		name = strings.TrimSuffix(name, ext)
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func simulate(cfg config, stdout, stderr io.Writer) error {
	common, err := cfg.Env.Resolve()
	if err != nil {
		return err
	}
	mode, err := perf.ParseMode(cfg.pprof)
	if err != nil {
		return err
	}

	// 每局 debug 日誌走背景寫出，不拖慢 worker
	log, ah := logger.NewAsync(common.Mode, stderr, 4096)
	defer ah.Close()

	gc, name, err := loadConfig(cfg.path)
	if err != nil {
		return err
	}
	lab, err := scratchlab.New(common.Factory, gc, scratchlab.Options{Name: name, Sampler: common.Sampler, Log: log})
	if err != nil {
		return err
	}
	var s *scratchlab.Simulator
	if common.Seed < 0 {
		s, err = lab.NewSimulator()
	} else {
		s, err = lab.NewSimulatorWithSeed(common.Seed)
	}
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(stderr, "[GAME:%s] [BET:%.2f] [WORKERS:%d] [ROUNDS:%d] [SEED:%d] [SAMPLER:%s]\n",
		name, cfg.bet, cfg.workers, cfg.workers*cfg.rounds, s.Seed(), common.Sampler)

	var rep *stats.StatReport
	exe := func() error {
		r, used, err := s.SimMP(cfg.bet, cfg.rounds, cfg.workers, cfg.progress)
		if err != nil {
			return err
		}
		rep = r
		switch cfg.format {
		case "json":
			return rep.WriteWith(stdout, &stats.JsonStatReportRender{})
		case "yaml":
			return rep.WriteWith(stdout, &stats.YAMLStatReportRender{})
		}
		return rep.WriteTable(stdout, used)
	}
	path, err := perf.Run(perf.DefaultDir, mode, exe)
	if err != nil {
		return err
	}
	if path != "" {
		log.Info("profile written", "path", path)
	}
	if cfg.output != "" {
		if err := rep.SaveFile(cfg.output); err != nil {
			return err
		}
		log.Info("report saved", "path", cfg.output)
	}
	if n := ah.Dropped(); n > 0 {
		log.Warn("log records dropped", "count", n)
	}
	return nil
}
