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

// Package gen 盤面生成。
package gen

import (
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/buf"
	"github.com/zintix-labs/scratchlab/sdk/core"
	"github.com/zintix-labs/scratchlab/sdk/sampler"
	"github.com/zintix-labs/scratchlab/spec"
)

// BonusProbability 每局出現 bonus 格的機率
const BonusProbability = 0.2

// MatrixGenerator 保存生成盤面所需的狀態。
// 權重表在建立時就轉成 Picker，生成熱路徑不再配置記憶體。
type MatrixGenerator struct {
	core *core.Core
	Rows int
	Cols int

	cellIdx     []int            // 每條規則對應的格子 (row-major)
	cellPickers []sampler.Picker // 與 cellIdx 一一對應
	cellNames   [][]string
	uncovered   []int
	bonusPicker sampler.Picker
	bonusNames  []string
}

// NewMatrixGenerator 依設定預先建好所有抽樣表。
func NewMatrixGenerator(c *core.Core, gc *spec.GameConfig, kind sampler.Kind) (*MatrixGenerator, error) {
	if c == nil {
		return nil, errs.NewFatal("nil core")
	}
	if err := gc.Init(); err != nil {
		return nil, err
	}
	mg := &MatrixGenerator{
		core:      c,
		Rows:      gc.Rows,
		Cols:      gc.Columns,
		uncovered: gc.Uncovered,
	}
	for i, cp := range gc.Probabilities.StandardSymbols {
		tbl := gc.CellTables[i]
		p, err := sampler.Build(kind, tbl.Weights)
		if err != nil {
			return nil, errs.Wrap(err, "standard symbol table")
		}
		mg.cellIdx = append(mg.cellIdx, cp.Row*gc.Columns+cp.Column)
		mg.cellPickers = append(mg.cellPickers, p)
		mg.cellNames = append(mg.cellNames, tbl.Names)
	}
	bp, err := sampler.Build(kind, gc.BonusTable.Weights)
	if err != nil {
		return nil, errs.Wrap(err, "bonus symbol table")
	}
	mg.bonusPicker = bp
	mg.bonusNames = gc.BonusTable.Names
	return mg, nil
}

// Gen 生成盤面寫入 g，回傳 bonus 格的 index，沒有則 -1。
//
// 順序固定，亂數消耗可重現：
//  1. 依宣告順序逐條規則抽樣，同一格重複宣告時後者覆蓋。
//  2. 沒有規則的格子用第一張表補上。
//  3. 以 BonusProbability 決定是否出現 bonus，出現時均勻選一格覆蓋。
func (mg *MatrixGenerator) Gen(g *buf.Grid) int {
	cells := g.Cells
	_ = cells[mg.Rows*mg.Cols-1] // BCE hint

	for i, idx := range mg.cellIdx {
		cells[idx] = mg.cellNames[i][mg.cellPickers[i].Pick(mg.core)]
	}
	for _, idx := range mg.uncovered {
		cells[idx] = mg.cellNames[0][mg.cellPickers[0].Pick(mg.core)]
	}

	if !mg.core.Chance(BonusProbability) {
		return -1
	}
	idx := mg.core.IntN(len(cells))
	cells[idx] = mg.bonusNames[mg.bonusPicker.Pick(mg.core)]
	return idx
}

// GenGrid 配置新盤面後生成
func (mg *MatrixGenerator) GenGrid() (*buf.Grid, int) {
	g := buf.NewGrid(mg.Rows, mg.Cols)
	return g, mg.Gen(g)
}
