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

// Package buf 單局結果的資料結構：盤面 Grid、中獎表 Wins、單局結果 PlayResult。
package buf

import (
	"github.com/zintix-labs/scratchlab/errs"
)

// Grid 盤面，row-major 平鋪：Cells[row*Cols+col]
type Grid struct {
	Rows  int
	Cols  int
	Cells []string
}

func NewGrid(rows, cols int) *Grid {
	return &Grid{Rows: rows, Cols: cols, Cells: make([]string, rows*cols)}
}

// GridFromRows 由二維陣列建立盤面，各列長度必須一致。
func GridFromRows(rows [][]string) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errs.Warnf("empty grid")
	}
	g := NewGrid(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != g.Cols {
			return nil, errs.Warnf("ragged grid: row %d has %d cells, want %d", r, len(row), g.Cols)
		}
		copy(g.Cells[r*g.Cols:], row)
	}
	return g, nil
}

func (g *Grid) Size() int {
	return len(g.Cells)
}

func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.Rows && col >= 0 && col < g.Cols
}

// At 越界回傳 ok=false
func (g *Grid) At(row, col int) (string, bool) {
	if !g.InBounds(row, col) {
		return "", false
	}
	return g.Cells[row*g.Cols+col], true
}

func (g *Grid) Set(row, col int, sym string) {
	g.Cells[row*g.Cols+col] = sym
}

// Matrix 轉回二維陣列，供輸出使用
func (g *Grid) Matrix() [][]string {
	m := make([][]string, g.Rows)
	for r := range m {
		m[r] = make([]string, g.Cols)
		copy(m[r], g.Cells[r*g.Cols:(r+1)*g.Cols])
	}
	return m
}

func (g *Grid) Reset() {
	clear(g.Cells)
}
