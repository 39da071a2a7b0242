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

package calc

import (
	"github.com/zintix-labs/scratchlab/sdk/buf"
	"github.com/zintix-labs/scratchlab/spec"
)

// CalcWins 評估盤面，結果附加到 out 後回傳。
//
//  1. 統計標準圖標數量，bonus 與未知圖標不計。
//  2. same_symbols 取 count <= 出現次數中 count 最大者，同分取先宣告。
//  3. linear_symbols 取任一 area 全部是該圖標者中倍率最大者，同分取先宣告；越界座標視為不成立。
//  4. 至少成立一個才列入，same_symbols 在前。
func (c *Calculator) CalcWins(g *buf.Grid, out buf.Wins) buf.Wins {
	c.countSymbols(g)
	for _, sym := range c.order {
		var combos []string
		if best := c.bestSame(c.counts[sym]); best != "" {
			combos = append(combos, best)
		}
		if best := c.bestLinear(g, sym); best != "" {
			combos = append(combos, best)
		}
		if len(combos) > 0 {
			out = append(out, buf.SymbolWin{Symbol: sym, Combos: combos})
		}
	}
	return out
}

func (c *Calculator) countSymbols(g *buf.Grid) {
	// 清每局統計（不要重配）
	clear(c.counts)
	c.order = c.order[:0]
	for _, s := range g.Cells {
		sym, ok := c.cfg.Symbol(s)
		if !ok || sym.Type != spec.Standard {
			continue
		}
		if c.counts[s] == 0 {
			c.order = append(c.order, s)
		}
		c.counts[s]++
	}
}

func (c *Calculator) bestSame(n int) string {
	best, bestCount := "", 0
	for _, cb := range c.sameCombos {
		if cb.Count <= n && cb.Count > bestCount {
			best, bestCount = cb.Name, cb.Count
		}
	}
	return best
}

func (c *Calculator) bestLinear(g *buf.Grid, sym string) string {
	best, bestMult := "", 0.0
	for _, cb := range c.linearCombos {
		if cb.RewardMultiplier <= bestMult {
			continue
		}
		if anyAreaMatches(g, cb.CoveredAreas, sym) {
			best, bestMult = cb.Name, cb.RewardMultiplier
		}
	}
	return best
}

func anyAreaMatches(g *buf.Grid, areas [][]spec.Coord, sym string) bool {
	for _, area := range areas {
		if areaMatches(g, area, sym) {
			return true
		}
	}
	return false
}

func areaMatches(g *buf.Grid, area []spec.Coord, sym string) bool {
	for _, pos := range area {
		s, ok := g.At(pos.Row, pos.Col)
		if !ok || s != sym {
			return false
		}
	}
	return true
}

// FindBonusSymbol 回傳 row-major 掃描第一個 bonus 圖標，沒有回傳 ""
func (c *Calculator) FindBonusSymbol(g *buf.Grid) string {
	for _, s := range g.Cells {
		if sym, ok := c.cfg.Symbol(s); ok && sym.Type == spec.Bonus {
			return s
		}
	}
	return ""
}
