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

// Package perf 以 runtime/pprof 包住一段執行，給 cmd/sim -p 使用。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/zintix-labs/scratchlab/errs"
)

// DefaultDir pprof 檔案寫入路徑
const DefaultDir = "build/profiling"

type Mode string

const (
	ModeNone   Mode = ""
	ModeCPU    Mode = "cpu"
	ModeHeap   Mode = "heap"
	ModeAllocs Mode = "allocs"
)

func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeNone, ModeCPU, ModeHeap, ModeAllocs:
		return m, nil
	}
	return ModeNone, errs.Argumentf("unknown pprof mode %q, want cpu|heap|allocs", s)
}

// Run 依 mode 執行 exe 並寫出 <dir>/<mode>.pprof，回傳檔案路徑（ModeNone 為空字串）。
//
// exe 的錯誤優先回傳；profile 寫檔失敗時 exe 仍已執行完畢。
func Run(dir string, mode Mode, exe func() error) (string, error) {
	if mode == ModeNone {
		return "", exe()
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.Wrap(err, "create pprof dir")
	}
	path := filepath.Join(dir, string(mode)+".pprof")

	switch mode {
	case ModeCPU:
		return path, cpu(path, exe)
	case ModeHeap, ModeAllocs:
		if err := exe(); err != nil {
			return path, err
		}
		return path, snapshot(path, mode)
	}
	return "", errs.Argumentf("unknown pprof mode %q", mode)
}

// cpu 可做性能分析，也可以當 pgo 的 default.pgo
func cpu(path string, exe func() error) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, "failed to create cpu.pprof")
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "failed to start pprof")
	}
	defer pprof.StopCPUProfile()
	return exe()
}

// snapshot heap 為 in-use，allocs 為累積配置
func snapshot(path string, mode Mode) error {
	if mode == ModeHeap {
		runtime.GC() // 讓快照貼近 live objects
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, "failed to create "+string(mode)+".pprof")
	}
	defer f.Close()
	prof := pprof.Lookup(string(mode))
	if prof == nil {
		return errs.NewFatal("pprof profile not found: " + string(mode))
	}
	if err := prof.WriteTo(f, 0); err != nil {
		return errs.Wrap(err, "failed to write "+string(mode)+" profile")
	}
	return nil
}
