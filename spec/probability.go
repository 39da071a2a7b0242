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

package spec

import "github.com/zintix-labs/scratchlab/errs"

// Probabilities 盤面機率設定
//
//   - StandardSymbols: 每格一張權重表，依宣告順序抽樣
//   - BonusSymbols: 全盤共用一張，命中時只覆蓋一格
type Probabilities struct {
	StandardSymbols []CellProbability `yaml:"standard_symbols"  json:"standard_symbols"`
	BonusSymbols    BonusProbability  `yaml:"bonus_symbols"     json:"bonus_symbols"`
}

type CellProbability struct {
	Column  int          `yaml:"column"   json:"column"`
	Row     int          `yaml:"row"      json:"row"`
	Symbols Ordered[int] `yaml:"symbols"  json:"symbols"`
}

type BonusProbability struct {
	Symbols Ordered[int] `yaml:"symbols"  json:"symbols"`
}

// WeightTable 權重表拆成平行的名稱與權重
type WeightTable struct {
	Names   []string
	Weights []int
}

func (wt WeightTable) Len() int {
	return len(wt.Names)
}

// checkTable 檢查一張權重表：非空、權重為正、引用的圖標存在且類型相符。
func checkTable(where string, tbl Ordered[int], symbols Ordered[*Symbol], want SymbolType) (WeightTable, error) {
	if tbl.Len() == 0 {
		return WeightTable{}, errs.Configf("%s: empty weight table", where)
	}
	wt := WeightTable{
		Names:   make([]string, 0, tbl.Len()),
		Weights: make([]int, 0, tbl.Len()),
	}
	for name, w := range tbl.All() {
		sym, ok := symbols.Get(name)
		if !ok {
			return WeightTable{}, errs.Configf("%s: unknown symbol %q", where, name)
		}
		if sym.Type != want {
			return WeightTable{}, errs.Configf("%s: symbol %q is %s, want %s", where, name, sym.Type, want)
		}
		if w <= 0 {
			return WeightTable{}, errs.Configf("%s: weight of %q must be positive, got %d", where, name, w)
		}
		wt.Names = append(wt.Names, name)
		wt.Weights = append(wt.Weights, w)
	}
	return wt, nil
}
