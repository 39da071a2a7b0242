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

// Package scratchlab 提供刮刮樂引擎的組裝入口（assembler）。
//
// Lab 把三個地基組裝在一起，並提供建立 Machine / Simulator / MachinePool 的入口：
//  1. GameConfig：已驗證的遊戲設定，整個 Lab 共用且唯讀。
//  2. PRNGFactory：亂數核心工廠，同一個 seed 必須得到同一串亂數。
//  3. Options：抽樣結構與 logger。
//
// Lab 本身不讀檔：設定由呼叫端以 spec.LoadFile / spec.LoadFS 載入後傳入。
//
//	gc, _ := spec.LoadFS(demo_configs.FS, demo_configs.JSON)
//	lab, _ := scratchlab.New(core.Default(), gc, scratchlab.Options{})
//	m, _ := lab.NewMachineWithSeed(42)
//	res, _ := m.Play(100)
package scratchlab

import (
	"log/slog"

	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/logger"
	"github.com/zintix-labs/scratchlab/sdk/core"
	"github.com/zintix-labs/scratchlab/sdk/sampler"
	"github.com/zintix-labs/scratchlab/spec"
)

const defaultName = "scratch"

// Options 零值即可使用：cumulative 抽樣、靜音 logger。
type Options struct {
	Name    string       // 報表與日誌使用的名稱
	Sampler sampler.Kind // 權重表的抽樣結構
	Log     *slog.Logger
}

// Lab 組裝器，建立後不再變動，可在多個 goroutine 間共用。
type Lab struct {
	cf  core.PRNGFactory
	gc  *spec.GameConfig
	opt Options
}

// New 驗證設定並建立 Lab。
func New(cf core.PRNGFactory, gc *spec.GameConfig, opt Options) (*Lab, error) {
	if cf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	if gc == nil {
		return nil, errs.Configf("game config required")
	}
	if err := gc.Init(); err != nil {
		return nil, err
	}
	if opt.Name == "" {
		opt.Name = defaultName
	}
	if opt.Log == nil {
		opt.Log = logger.Silent()
	}
	return &Lab{cf: cf, gc: gc, opt: opt}, nil
}

func (l *Lab) Config() *spec.GameConfig {
	return l.gc
}

func (l *Lab) Name() string {
	return l.opt.Name
}

// NewMachine 以 crypto/rand 產生的 seed 建立 Machine
func (l *Lab) NewMachine() (*Machine, error) {
	seed, err := core.NewSeed()
	if err != nil {
		return nil, errs.Wrap(err, "new crypto seed error in go std lib")
	}
	return newMachineWithSeed(l, seed)
}

// NewMachineWithSeed 同一份設定 + 同一個 seed 得到一致的結果序列
func (l *Lab) NewMachineWithSeed(seed int64) (*Machine, error) {
	return newMachineWithSeed(l, seed)
}

func (l *Lab) NewSimulator() (*Simulator, error) {
	seed, err := core.NewSeed()
	if err != nil {
		return nil, errs.Wrap(err, "new crypto seed error in go std lib")
	}
	return newSimulatorWithSeed(l, seed)
}

func (l *Lab) NewSimulatorWithSeed(seed int64) (*Simulator, error) {
	return newSimulatorWithSeed(l, seed)
}

// NewMachinePool 建立 n 台機台的池，seed 決定所有機台的起點
func (l *Lab) NewMachinePool(n int, seed int64) (*MachinePool, error) {
	return newMachinePool(l, n, seed)
}
