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

package scratchlab

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"

	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/recorder"
	"github.com/zintix-labs/scratchlab/sdk/calc"
	"github.com/zintix-labs/scratchlab/stats"
)

const capPrepare int = 100

// Simulator 以多台機台平行模擬並紀錄統計。
//
// 第一台機台以 initSeed 建立，其餘由 seedMaker 依序產生，同一個 seed 的結果可重現
// （SimMP 在 worker 數不變時亦然）。Simulator 本身不可併發呼叫。
type Simulator struct {
	Name      string
	lab       *Lab
	initSeed  int64
	seedmaker *seedMaker
	mBuf      []*Machine               // 併發執行機台實例
	rBuf      []*recorder.PlayRecorder // 併發遊戲紀錄員
}

func newSimulatorWithSeed(l *Lab, seed int64) (*Simulator, error) {
	s := &Simulator{
		Name:      l.opt.Name,
		lab:       l,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
		mBuf:      make([]*Machine, 1, capPrepare),
		rBuf:      make([]*recorder.PlayRecorder, 0, capPrepare),
	}
	m, err := newMachineWithSeed(l, seed)
	if err != nil {
		return nil, err
	}
	s.mBuf[0] = m
	return s, nil
}

func (s *Simulator) Seed() int64 {
	return s.initSeed
}

// Sim 單線模擬器：以一台機台連續跑 rounds 局，回傳統計結果與用時
func (s *Simulator) Sim(bet float64, rounds int, showpb bool) (*stats.StatReport, time.Duration, error) {
	return s.SimMP(bet, rounds, 1, showpb)
}

// SimMP 平行執行 workers 台機台，總計 rounds*workers 局，合併統計後回傳結果與用時
func (s *Simulator) SimMP(bet float64, rounds int, workers int, showpb bool) (*stats.StatReport, time.Duration, error) {
	defer s.reset()
	if err := calc.CheckBet(bet); err != nil {
		return nil, 0, err
	}
	if rounds < 1 {
		return nil, 0, errs.Argumentf("rounds must > 0, got %d", rounds)
	}
	if workers < 1 {
		return nil, 0, errs.Argumentf("workers must > 0, got %d", workers)
	}
	for len(s.mBuf) < workers {
		m, err := newMachineWithSeed(s.lab, s.seedmaker.next())
		if err != nil {
			return nil, 0, err
		}
		s.mBuf = append(s.mBuf, m)
	}
	for len(s.rBuf) < workers {
		r, err := recorder.NewPlayRecorder(s.lab.gc, s.Name, bet)
		if err != nil {
			return nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}

	bar := pb.StartNew(rounds * workers)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	s.lab.opt.Log.Info("sim start", "bet", bet, "rounds", rounds, "workers", workers, "seed", s.initSeed)

	wg := new(sync.WaitGroup)
	wg.Add(workers)
	fails := make([]error, workers)
	for i := range workers {
		go func(i int) {
			defer wg.Done()
			m := s.mBuf[i]
			rec := s.rBuf[i]
			for range rounds {
				pr, err := m.PlayInternal(bet)
				if err != nil {
					fails[i] = err
					return
				}
				rec.Record(pr)
				bar.Increment()
			}
		}(i)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	for _, err := range fails {
		if err != nil {
			return nil, used, err
		}
	}
	merged, err := recorder.Merge(s.rBuf[:workers])
	if err != nil {
		return nil, used, err
	}
	result := merged.Done()
	s.lab.opt.Log.Info("sim done", "rounds", result.Summary.Rounds, "rtp", result.Summary.RTP, "used", used)
	return result, used, nil
}

func (s *Simulator) reset() {
	s.rBuf = s.rBuf[:0]
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 以全週期 LCG 推進 state（不重複），再用可逆 mix63 打散。
// 可被多個 goroutine 同時呼叫，CAS 保證每次取得唯一的下一個 state。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next)) // 一定非負
		}
	}
}

// mix63：只用可逆的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
