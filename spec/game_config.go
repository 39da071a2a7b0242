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

import (
	"fmt"

	"github.com/zintix-labs/scratchlab/errs"
)

// GameConfig 一張刮刮卡的完整設定。
//
// 載入後只讀，可在多台 Machine 之間共用。
// 衍生欄位 (yaml/json "-") 由 Init 填入。
type GameConfig struct {
	Columns         int                      `yaml:"columns"           json:"columns"`
	Rows            int                      `yaml:"rows"              json:"rows"`
	Symbols         Ordered[*Symbol]         `yaml:"symbols"           json:"symbols"`
	Probabilities   Probabilities            `yaml:"probabilities"     json:"probabilities"`
	WinCombinations Ordered[*WinCombination] `yaml:"win_combinations"  json:"win_combinations"`

	// CellTables 與 StandardSymbols 一一對應
	CellTables []WeightTable `yaml:"-" json:"-"`
	BonusTable WeightTable   `yaml:"-" json:"-"`
	// Uncovered 沒有任何規則的格子 (row-major index)，以第一張表補上
	Uncovered []int `yaml:"-" json:"-"`
	initFlag  bool
}

// Init 初始化子設定並檢查
func (gc *GameConfig) Init() error {
	if gc.initFlag {
		return nil
	}
	if gc.Rows <= 0 || gc.Columns <= 0 {
		return errs.Configf("invalid grid dimensions: rows=%d columns=%d", gc.Rows, gc.Columns)
	}
	if gc.Symbols.Len() == 0 {
		return errs.Configf("empty symbols")
	}
	for name, s := range gc.Symbols.All() {
		if s == nil {
			return errs.Configf("symbol %q is null", name)
		}
		if err := s.Init(); err != nil {
			return errs.Wrap(err, fmt.Sprintf("symbol %q", name))
		}
	}
	for name, wc := range gc.WinCombinations.All() {
		if wc == nil {
			return errs.Configf("win combination %q is null", name)
		}
		if err := wc.Init(); err != nil {
			return errs.Wrap(err, fmt.Sprintf("win combination %q", name))
		}
	}
	if err := gc.initTables(); err != nil {
		return err
	}
	gc.initFlag = true
	return nil
}

func (gc *GameConfig) initTables() error {
	cells := gc.Probabilities.StandardSymbols
	if len(cells) == 0 {
		return errs.Configf("probabilities.standard_symbols is empty")
	}
	covered := make([]bool, gc.Size())
	gc.CellTables = make([]WeightTable, len(cells))
	for i, cp := range cells {
		where := fmt.Sprintf("standard_symbols[%d] (%d:%d)", i, cp.Row, cp.Column)
		if !gc.InBounds(cp.Row, cp.Column) {
			return errs.Configf("%s: cell out of bounds", where)
		}
		wt, err := checkTable(where, cp.Symbols, gc.Symbols, Standard)
		if err != nil {
			return err
		}
		gc.CellTables[i] = wt
		covered[cp.Row*gc.Columns+cp.Column] = true
	}
	gc.Uncovered = gc.Uncovered[:0]
	for idx, ok := range covered {
		if !ok {
			gc.Uncovered = append(gc.Uncovered, idx)
		}
	}
	bt, err := checkTable("bonus_symbols", gc.Probabilities.BonusSymbols.Symbols, gc.Symbols, Bonus)
	if err != nil {
		return err
	}
	gc.BonusTable = bt
	return nil
}

// Size 盤面格數
func (gc *GameConfig) Size() int {
	return gc.Rows * gc.Columns
}

func (gc *GameConfig) InBounds(row, col int) bool {
	return row >= 0 && row < gc.Rows && col >= 0 && col < gc.Columns
}

func (gc *GameConfig) Symbol(name string) (*Symbol, bool) {
	return gc.Symbols.Get(name)
}

func (gc *GameConfig) Combination(name string) (*WinCombination, bool) {
	return gc.WinCombinations.Get(name)
}
