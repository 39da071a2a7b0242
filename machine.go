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
	"log/slog"
	"slices"
	"sync"

	"github.com/zintix-labs/scratchlab/corefmt"
	"github.com/zintix-labs/scratchlab/dto"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/buf"
	"github.com/zintix-labs/scratchlab/sdk/calc"
	"github.com/zintix-labs/scratchlab/sdk/core"
	"github.com/zintix-labs/scratchlab/sdk/gen"
)

// Machine 對外提供 Play 的最小單位。
//
// 持有自己的 PRNG、盤面生成器、計算器與可重用的結果 buffer。
// Play 與 PlayRequest 以 mu 保護，同一台 Machine 可被多個 goroutine 呼叫；
// 模擬器使用的 PlayInternal 不加鎖，機台必須由單一 worker 獨佔。
type Machine struct {
	name     string
	core     *core.Core
	gen      *gen.MatrixGenerator
	calc     *calc.Calculator
	result   *buf.PlayResult // 熱路徑 buffer，每局覆寫
	mu       sync.Mutex
	initseed int64
	replay   bool // PRNG 可 Snapshot；crypto 來源不可
	log      *slog.Logger
}

func newMachineWithSeed(l *Lab, seed int64) (*Machine, error) {
	m := &Machine{
		name:     l.opt.Name,
		core:     core.New(l.cf.New(seed)),
		result:   buf.NewPlayResult(l.gc),
		initseed: seed,
		log:      l.opt.Log.With("machine", l.opt.Name),
	}
	var err error
	if m.gen, err = gen.NewMatrixGenerator(m.core, l.gc, l.opt.Sampler); err != nil {
		return nil, err
	}
	if m.calc, err = calc.NewCalculator(l.gc); err != nil {
		return nil, err
	}
	_, serr := m.core.Snapshot()
	m.replay = serr == nil
	return m, nil
}

// Replayable PRNG 不支援 Snapshot 時，PlayState 為空且無法重播
func (m *Machine) Replayable() bool {
	return m.replay
}

// Seed 出生 seed；任意局的重現請用 PlayState
func (m *Machine) Seed() int64 {
	return m.initseed
}

// Play 以機台目前的亂數狀態玩一局。
func (m *Machine) Play(bet float64) (dto.GameResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pr, err := m.play(bet, m.replay)
	if err != nil {
		return dto.GameResult{}, err
	}
	return dto.NewGameResult(pr)
}

// PlayRequest 帶 start_b64u 時從該狀態重玩一局，結束後機台回到原本的亂數狀態；
// 未帶時等同 Play。回傳的 PlayState 可用來重現這一局。
func (m *Machine) PlayRequest(req dto.PlayRequest) (gr dto.GameResult, ps dto.PlayState, err error) {
	bet, start, err := req.Parse()
	if err != nil {
		return gr, ps, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if start != nil {
		rem, serr := m.core.Snapshot()
		if serr != nil {
			return gr, ps, errs.WrapKind(serr, errs.KindArgument, "prng is not replayable")
		}
		if rerr := m.core.Restore(start); rerr != nil {
			return gr, ps, errs.WrapKind(rerr, errs.KindArgument, "restore core err")
		}
		defer func() {
			if rerr := m.core.Restore(rem); rerr != nil && err == nil {
				err = errs.Wrap(rerr, "restore core back err")
			}
		}()
	}

	pr, err := m.play(bet, m.replay)
	if err != nil {
		return gr, ps, err
	}
	if gr, err = dto.NewGameResult(pr); err != nil {
		return gr, ps, err
	}
	return gr, dto.NewPlayState(pr), nil
}

// PlayInternal 直接回傳內部 buffer，下一局會覆寫；模擬器與測試使用。
//
// 不加鎖也不取 snapshot。
func (m *Machine) PlayInternal(bet float64) (*buf.PlayResult, error) {
	return m.play(bet, false)
}

// SnapshotCore 取得 Core 狀態
func (m *Machine) SnapshotCore() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.core.Snapshot()
}

// RestoreCore 恢復 Core 狀態
func (m *Machine) RestoreCore(src []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.core.Restore(src)
}

// play 生成 -> 評估 -> 計獎，押注錯誤時不消耗亂數。
func (m *Machine) play(bet float64, snap bool) (*buf.PlayResult, error) {
	if err := calc.CheckBet(bet); err != nil {
		return nil, err
	}
	pr := m.result
	pr.Reset()
	pr.Bet = bet

	if snap {
		s, err := m.core.Snapshot()
		if err != nil {
			return nil, errs.Wrap(err, "before snapshot error")
		}
		pr.StartSnap = append(pr.StartSnap, s...)
	}

	m.gen.Gen(pr.Grid)
	pr.Wins = m.calc.CalcWins(pr.Grid, pr.Wins)
	pr.Bonus = m.calc.FindBonusSymbol(pr.Grid)
	reward, applied, err := m.calc.CalcReward(bet, pr.Wins, pr.Bonus)
	if err != nil {
		return nil, err
	}
	pr.Reward = reward
	pr.BonusApplied = applied

	if snap {
		s, err := m.core.Snapshot()
		if err != nil {
			return nil, errs.Wrap(err, "after snapshot error")
		}
		pr.AfterSnap = append(pr.AfterSnap, s...)
	}
	m.logPlay(pr)
	return pr, nil
}

func (m *Machine) logPlay(pr *buf.PlayResult) {
	ctx := context.Background()
	if !m.log.Enabled(ctx, slog.LevelDebug) {
		return
	}
	attrs := []slog.Attr{
		slog.Any("cells", slices.Clone(pr.Grid.Cells)), // buffer 會被下一局覆寫
		slog.Float64("bet", pr.Bet),
		slog.Float64("reward", pr.Reward),
		slog.String("bonus", pr.Bonus),
		slog.Bool("bonus_applied", pr.BonusApplied),
	}
	if len(pr.StartSnap) > 0 {
		attrs = append(attrs, slog.String("start_b64u", corefmt.EncodeBase64URL(pr.StartSnap)))
	}
	m.log.LogAttrs(ctx, slog.LevelDebug, "play", attrs...)
}
