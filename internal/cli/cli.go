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

// Package cli 兩個指令共用的環境變數、旗標與結束碼。
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/logger"
	"github.com/zintix-labs/scratchlab/sdk/core"
	"github.com/zintix-labs/scratchlab/sdk/sampler"
)

// Env 環境變數預設值，旗標可覆寫。
type Env struct {
	Log     string `env:"SCRATCH_LOG"     envDefault:"prod"`
	RNG     string `env:"SCRATCH_RNG"     envDefault:"pcg64"`
	Sampler string `env:"SCRATCH_SAMPLER" envDefault:"cumulative"`
	Seed    int64  `env:"SCRATCH_SEED"    envDefault:"-1"`
}

// Common 解析完成的共用設定
type Common struct {
	Mode    logger.LogMode
	Factory core.PRNGFactory
	Sampler sampler.Kind
	Seed    int64 // < 0 代表由 crypto/rand 產生
}

func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, errs.WrapKind(err, errs.KindArgument, "parse env")
	}
	return e, nil
}

// Bind 註冊共用旗標，預設值取自 e
func (e *Env) Bind(fs *flag.FlagSet) {
	fs.StringVar(&e.Log, "log", e.Log, "log mode: dev|prod|silence (env SCRATCH_LOG)")
	fs.StringVar(&e.RNG, "rng", e.RNG, "random source: pcg64|crypto (env SCRATCH_RNG)")
	fs.StringVar(&e.Sampler, "sampler", e.Sampler, "weighted selector: cumulative|lut|alias (env SCRATCH_SAMPLER)")
	fs.Int64Var(&e.Seed, "seed", e.Seed, "pcg64 seed, negative for a random seed (env SCRATCH_SEED)")
}

func (e Env) Resolve() (Common, error) {
	mode, err := logger.ParseMode(e.Log)
	if err != nil {
		return Common{}, err
	}
	f, err := Factory(e.RNG)
	if err != nil {
		return Common{}, err
	}
	k, ok := sampler.ParseKind(strings.ToLower(strings.TrimSpace(e.Sampler)))
	if !ok {
		return Common{}, errs.Argumentf("unknown sampler %q, want cumulative|lut|alias", e.Sampler)
	}
	return Common{Mode: mode, Factory: f, Sampler: k, Seed: e.Seed}, nil
}

// Logger 日誌一律寫 stderr
func (c Common) Logger(stderr io.Writer) *slog.Logger {
	return logger.New(c.Mode, stderr)
}

func Factory(name string) (core.PRNGFactory, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pcg64", "":
		return core.Default(), nil
	case "crypto":
		return core.CryptoFactory{}, nil
	}
	return nil, errs.Argumentf("unknown rng %q, want pcg64|crypto", name)
}

// Parse 解析旗標；-h 時回傳 flag.ErrHelp，其餘錯誤歸類為參數錯誤
func Parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return errs.WrapKind(err, errs.KindArgument, "parse flags")
}

// ExitCode 0 成功，2 參數錯誤，其餘 1
func ExitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errs.KindOf(err) == errs.KindArgument:
		return 2
	}
	return 1
}

// Fail 把錯誤寫到 stderr 並回傳結束碼
func Fail(stderr io.Writer, err error) int {
	code := ExitCode(err)
	if code != 0 {
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return code
}
