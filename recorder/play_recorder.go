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

package recorder

import (
	"github.com/shopspring/decimal"

	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/buf"
	"github.com/zintix-labs/scratchlab/sdk/calc"
	"github.com/zintix-labs/scratchlab/spec"
	"github.com/zintix-labs/scratchlab/stats"
)

// PlayRecorder 遊戲紀錄員
//
// PlayRecorder 負責紀錄每局結果，並透過Done輸出統計報表。
// 非併發安全：模擬器每個 worker 各持一份，最後 Merge。
type PlayRecorder struct {
	GameName string
	Bet      float64
	Basic    *BasicRecord
	Hit      *HitRecord
	Dist     *DistRecord

	comboIdx  map[string]int
	symbolIdx map[string]int
	cfg       *spec.GameConfig
}

// BasicRecord 基本遊戲資料紀錄
type BasicRecord struct {
	Rounds       int
	TotalBet     decimal.Decimal
	TotalWin     decimal.Decimal
	WinMultSum   float64
	WinMultSqSum float64 // 平方和
	WinRounds    int
	BonusRounds  int // 盤面出現 bonus 圖標
	BonusApplied int // bonus 實際改變了獎金
	MaxWinMult   float64
}

// HitRecord 命中次數，索引依設定宣告順序
type HitRecord struct {
	Combos  []int
	Symbols []int
	Impacts []int // 盤面出現 bonus 的次數，以 spec.Impact 為索引
}

// DistRecord 贏倍區間落點統計
type DistRecord struct {
	WinCollect []int
}

var impacts = []spec.Impact{spec.ImpactNone, spec.MultiplyReward, spec.ExtraBonus, spec.Miss}

func NewPlayRecorder(gc *spec.GameConfig, name string, bet float64) (*PlayRecorder, error) {
	if gc == nil {
		return nil, errs.NewFatal("recorder: nil game config")
	}
	if err := calc.CheckBet(bet); err != nil {
		return nil, err
	}
	r := &PlayRecorder{
		GameName:  name,
		Bet:       bet,
		Basic:     &BasicRecord{},
		Hit:       &HitRecord{},
		Dist:      &DistRecord{WinCollect: make([]int, stats.Buckets.Len())},
		comboIdx:  make(map[string]int, gc.WinCombinations.Len()),
		symbolIdx: make(map[string]int, gc.Symbols.Len()),
		cfg:       gc,
	}
	for i, k := range gc.WinCombinations.Keys() {
		r.comboIdx[k] = i
	}
	for i, k := range gc.Symbols.Keys() {
		r.symbolIdx[k] = i
	}
	r.Hit.Combos = make([]int, len(r.comboIdx))
	r.Hit.Symbols = make([]int, len(r.symbolIdx))
	r.Hit.Impacts = make([]int, len(impacts))
	return r, nil
}

// Record 以單局結果更新統計
func (r *PlayRecorder) Record(pr *buf.PlayResult) {
	b := r.Basic
	b.Rounds++
	b.TotalBet = b.TotalBet.Add(decimal.NewFromFloat(pr.Bet))
	b.TotalWin = b.TotalWin.Add(decimal.NewFromFloat(pr.Reward))

	mult := 0.0
	if pr.Bet > 0 {
		mult = pr.Reward / pr.Bet
	}
	b.WinMultSum += mult
	b.WinMultSqSum += mult * mult
	if mult > b.MaxWinMult {
		b.MaxWinMult = mult
	}
	if pr.Reward > 0 {
		b.WinRounds++
	}
	if pr.HasBonus() {
		b.BonusRounds++
		if sym, ok := r.cfg.Symbol(pr.Bonus); ok {
			r.Hit.Impacts[sym.Impact]++
		}
		if pr.BonusApplied {
			b.BonusApplied++
		}
	}
	for _, sw := range pr.Wins {
		if i, ok := r.symbolIdx[sw.Symbol]; ok {
			r.Hit.Symbols[i]++
		}
		for _, c := range sw.Combos {
			if i, ok := r.comboIdx[c]; ok {
				r.Hit.Combos[i]++
			}
		}
	}
	r.Dist.WinCollect[stats.Buckets.Index(mult)]++
}

// Merge 合併多個紀錄員，必須同一份設定與同一押注。
func Merge(rs []*PlayRecorder) (*PlayRecorder, error) {
	if len(rs) == 0 {
		return nil, errs.NewFatal("merge play record err : empty input")
	}
	r0 := rs[0]
	out, err := NewPlayRecorder(r0.cfg, r0.GameName, r0.Bet)
	if err != nil {
		return nil, err
	}
	for _, v := range rs {
		if v.cfg != r0.cfg {
			return nil, errs.NewFatal("merge play record err : different game config")
		}
		if v.Bet != r0.Bet {
			return nil, errs.NewFatal("merge play record err : different bet")
		}
		ob, vb := out.Basic, v.Basic
		ob.Rounds += vb.Rounds
		ob.TotalBet = ob.TotalBet.Add(vb.TotalBet)
		ob.TotalWin = ob.TotalWin.Add(vb.TotalWin)
		ob.WinMultSum += vb.WinMultSum
		ob.WinMultSqSum += vb.WinMultSqSum
		ob.WinRounds += vb.WinRounds
		ob.BonusRounds += vb.BonusRounds
		ob.BonusApplied += vb.BonusApplied
		ob.MaxWinMult = max(ob.MaxWinMult, vb.MaxWinMult)

		addInto(out.Hit.Combos, v.Hit.Combos)
		addInto(out.Hit.Symbols, v.Hit.Symbols)
		addInto(out.Hit.Impacts, v.Hit.Impacts)
		addInto(out.Dist.WinCollect, v.Dist.WinCollect)
	}
	return out, nil
}

// Done 整理成報表並計算衍生指標
func (r *PlayRecorder) Done() *stats.StatReport {
	b := r.Basic
	report := &stats.StatReport{
		Summary: &stats.SummaryReport{
			GameName:     r.GameName,
			Bet:          r.Bet,
			Rounds:       b.Rounds,
			TotalBet:     b.TotalBet.InexactFloat64(),
			TotalWin:     b.TotalWin.InexactFloat64(),
			WinRounds:    b.WinRounds,
			BonusRounds:  b.BonusRounds,
			BonusApplied: b.BonusApplied,
			MaxWinMult:   b.MaxWinMult,
		},
		Mult: &stats.MultReport{
			WinMultSum:   b.WinMultSum,
			WinMultSqSum: b.WinMultSqSum,
		},
		Hit: &stats.HitReport{
			Combos:  counts(r.cfg.WinCombinations.Keys(), r.Hit.Combos),
			Symbols: counts(r.cfg.Symbols.Keys(), r.Hit.Symbols),
		},
		Dist: &stats.DistReport{
			WinBucket:  stats.Buckets.Labels(),
			WinCollect: append([]int(nil), r.Dist.WinCollect...),
		},
	}
	for _, im := range impacts {
		report.Hit.Impacts = append(report.Hit.Impacts, stats.CountRate{Name: im.String(), Count: r.Hit.Impacts[im]})
	}
	report.Done()
	return report
}

// RTP 以 decimal 精確計算
func (r *PlayRecorder) RTP() decimal.Decimal {
	if r.Basic.TotalBet.IsZero() {
		return decimal.Zero
	}
	return r.Basic.TotalWin.DivRound(r.Basic.TotalBet, 16)
}

func counts(names []string, n []int) []stats.CountRate {
	out := make([]stats.CountRate, len(names))
	for i, name := range names {
		out[i] = stats.CountRate{Name: name, Count: n[i]}
	}
	return out
}

func addInto(dst, src []int) {
	for i := range min(len(dst), len(src)) {
		dst[i] += src[i]
	}
}
