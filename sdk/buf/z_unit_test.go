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

package buf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridFromRows(t *testing.T) {
	rows := [][]string{{"A", "B", "C"}, {"D", "E", "F"}}
	g, err := GridFromRows(rows)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Rows)
	assert.Equal(t, 3, g.Cols)
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, g.Cells)
	assert.Equal(t, rows, g.Matrix())

	s, ok := g.At(1, 2)
	assert.True(t, ok)
	assert.Equal(t, "F", s)
	_, ok = g.At(2, 0)
	assert.False(t, ok)
	_, ok = g.At(0, -1)
	assert.False(t, ok)

	_, err = GridFromRows([][]string{{"A"}, {"B", "C"}})
	assert.Error(t, err)
	_, err = GridFromRows(nil)
	assert.Error(t, err)
}

func TestMatrixIsACopy(t *testing.T) {
	g := NewGrid(1, 2)
	g.Set(0, 1, "A")
	m := g.Matrix()
	m[0][1] = "Z"
	s, _ := g.At(0, 1)
	assert.Equal(t, "A", s)
}

func TestWinsToMap(t *testing.T) {
	var w Wins
	assert.True(t, w.Empty())
	assert.NotNil(t, w.ToMap())

	w = append(w, SymbolWin{Symbol: "A", Combos: []string{"same_symbol_3_times", "same_symbols_horizontally"}})
	combos, ok := w.Get("A")
	assert.True(t, ok)
	assert.Len(t, combos, 2)
	_, ok = w.Get("B")
	assert.False(t, ok)
	assert.Equal(t, map[string][]string{"A": {"same_symbol_3_times", "same_symbols_horizontally"}}, w.ToMap())
}

func TestPlayResultReset(t *testing.T) {
	p := &PlayResult{Grid: NewGrid(2, 2)}
	p.Bet = 10
	p.Grid.Set(0, 0, "A")
	p.Wins = append(p.Wins, SymbolWin{Symbol: "A"})
	p.Bonus = "10x"
	p.BonusApplied = true
	p.Reward = 5
	p.StartSnap = []byte{1, 2}
	p.AfterSnap = []byte{3}
	require.True(t, p.HasBonus())

	p.Reset()
	assert.Zero(t, p.Bet)
	assert.Equal(t, []string{"", "", "", ""}, p.Grid.Cells)
	assert.Empty(t, p.Wins)
	assert.False(t, p.HasBonus())
	assert.False(t, p.BonusApplied)
	assert.Zero(t, p.Reward)
	assert.Empty(t, p.StartSnap)
	assert.Empty(t, p.AfterSnap)
}
