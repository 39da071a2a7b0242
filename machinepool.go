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
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/scratchlab/dto"
	"github.com/zintix-labs/scratchlab/errs"
)

// MachinePool 管理同一份設定的一組機台，供同一行程內的大量併發 Play 使用。
//
// 借出 -> Play -> 歸還。機台在 Play 期間 panic 或回傳 Fatal 錯誤時視為狀態不可信：
// 直接丟棄並以 seedMaker 的下一個 seed 補一台新機，容量不變。
// 押注錯誤等 Warn 類錯誤不淘汰機台。
type MachinePool struct {
	lab       *Lab
	seedMaker *seedMaker
	pool      chan *Machine
	done      chan struct{}
	closeOnce sync.Once
	poolsize  int
	rebuild   atomic.Int32
	inflight  atomic.Int32
	panics    atomic.Int32
	fatals    atomic.Int32
	reason    atomic.Value // string
}

// PoolMetrics 拉取式的觀測快照；Available 來自 len(chan)，高併發下為近似值。
type PoolMetrics struct {
	Name        string `json:"name"`
	PoolSize    int    `json:"pool_size"`
	Available   int    `json:"available"`
	Inflight    int    `json:"inflight"`
	Rebuild     int    `json:"rebuild"`
	Panics      int    `json:"panics"`
	Fatals      int    `json:"fatals"`
	Closed      bool   `json:"closed"`
	CloseReason string `json:"close_reason"`
}

// newMachinePool n 至少為 1
func newMachinePool(l *Lab, n int, seed int64) (*MachinePool, error) {
	n = max(1, n)
	p := &MachinePool{
		lab:       l,
		seedMaker: newSeedMaker(seed),
		pool:      make(chan *Machine, n),
		done:      make(chan struct{}),
		poolsize:  n,
	}
	p.reason.Store("")
	for range n {
		m, err := newMachineWithSeed(l, p.seedMaker.next())
		if err != nil {
			return nil, err
		}
		p.pool <- m
	}
	return p, nil
}

// Play 借一台機台玩一局；ctx 只作用在等待借機的階段。
func (p *MachinePool) Play(ctx context.Context, req dto.PlayRequest) (gr dto.GameResult, ps dto.PlayState, err error) {
	// select 在多個 case 同時就緒時隨機挑選，關閉與取消要先各自檢查
	if p.Closed() {
		return gr, ps, p.closedErr()
	}
	if ctx.Err() != nil {
		return gr, ps, errs.NewWarn("play canceled/timeout: " + ctx.Err().Error())
	}
	var m *Machine
	select {
	case <-p.done:
		return gr, ps, p.closedErr()
	case <-ctx.Done():
		return gr, ps, errs.NewWarn("play canceled/timeout: " + ctx.Err().Error())
	case m = <-p.pool:
	}
	if p.Closed() {
		p.giveBack(m)
		return gr, ps, p.closedErr()
	}
	p.inflight.Add(1)

	defer func() {
		p.inflight.Add(-1)
		broken := false
		if r := recover(); r != nil {
			broken = true
			p.panics.Add(1)
			err = errs.NewFatal(fmt.Sprintf("machine %s panic : %v", m.name, r))
		} else if isFatalErr(err) {
			broken = true
			p.fatals.Add(1)
		}
		if p.Closed() {
			return
		}
		if broken {
			p.lab.opt.Log.Warn("replace broken machine", "seed", m.Seed(), "err", err)
			nm, buildErr := newMachineWithSeed(p.lab, p.seedMaker.next())
			p.rebuild.Add(1)
			if buildErr != nil {
				p.closeWithReason("rebuild_failed")
				return
			}
			m = nm
		}
		p.giveBack(m)
	}()

	return m.PlayRequest(req)
}

// Close 之後的 Play 一律回錯誤，可重複呼叫。
func (p *MachinePool) Close() {
	p.closeWithReason("closed")
}

func (p *MachinePool) Closed() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *MachinePool) ClosedReason() string {
	s, _ := p.reason.Load().(string)
	return s
}

func (p *MachinePool) Metrics() PoolMetrics {
	return PoolMetrics{
		Name:        p.lab.opt.Name,
		PoolSize:    p.poolsize,
		Available:   len(p.pool),
		Inflight:    int(p.inflight.Load()),
		Rebuild:     int(p.rebuild.Load()),
		Panics:      int(p.panics.Load()),
		Fatals:      int(p.fatals.Load()),
		Closed:      p.Closed(),
		CloseReason: p.ClosedReason(),
	}
}

func (p *MachinePool) closedErr() error {
	return errs.NewFatal("machine pool closed: " + p.ClosedReason())
}

// giveBack 池已關閉時直接丟棄
func (p *MachinePool) giveBack(m *Machine) {
	select {
	case <-p.done:
	case p.pool <- m:
	}
}

func (p *MachinePool) closeWithReason(reason string) {
	p.closeOnce.Do(func() {
		p.reason.Store(reason)
		close(p.done)
	})
}

// isFatalErr 只有錯誤本身宣告 Fatal 才代表機台狀態不可信
func isFatalErr(err error) bool {
	e, ok := errs.AsErr(err)
	return ok && e.ErrLv == errs.Fatal
}
