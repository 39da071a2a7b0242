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

package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zintix-labs/scratchlab/demo/demo_configs"
	"github.com/zintix-labs/scratchlab/sdk/buf"
	"github.com/zintix-labs/scratchlab/sdk/core"
	"github.com/zintix-labs/scratchlab/sdk/sampler"
	"github.com/zintix-labs/scratchlab/spec"
)

// script 依序回傳預先排好的亂數
type script struct {
	ints   []int
	floats []float64
}

func (s *script) IntN(int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

func (s *script) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *script) Uint64() uint64 { return 0 }
func (s *script) UintN(uint) uint { return 0 }
func (s *script) Snapshot() ([]byte, error) { return nil, nil }
func (s *script) Restore(b []byte) error { return nil }

const tinyJSON = `{
  "columns": 2, "rows": 1,
  "symbols": {
    "A": {"reward_multiplier": 1, "type": "standard"},
    "B": {"reward_multiplier": 1, "type": "standard"},
    "C": {"reward_multiplier": 1, "type": "standard"},
    "X": {"reward_multiplier": 2, "type": "bonus", "impact": "multiply_reward"},
    "Y": {"reward_multiplier": 0, "type": "bonus", "impact": "miss"}
  },
  "probabilities": {
    "standard_symbols": [
      {"column": 0, "row": 0, "symbols": {"A": 1, "B": 1}},
      {"column": 0, "row": 0, "symbols": {"C": 1}}
    ],
    "bonus_symbols": {"symbols": {"X": 1, "Y": 3}}
  },
  "win_combinations": {}
}`

func tinyConfig(t *testing.T) *spec.GameConfig {
	t.Helper()
	gc, err := spec.GetGameConfigByJSON([]byte(tinyJSON))
	require.NoError(t, err)
	return gc
}

func TestGenOrderAndOverlay(t *testing.T) {
	gc := tinyConfig(t)
	rng := &script{
		// rule0, rule1, 補格, bonus 格, bonus 表
		ints:   []int{1, 0, 0, 1, 2},
		floats: []float64{0.1},
	}
	mg, err := NewMatrixGenerator(core.New(rng), gc, sampler.KindCumulative)
	require.NoError(t, err)

	g := buf.NewGrid(1, 2)
	idx := mg.Gen(g)
	assert.Equal(t, 1, idx)
	// 重複宣告的格子以後者為準，沒規則的格子走第一張表
	assert.Equal(t, []string{"C", "Y"}, g.Cells)
	assert.Empty(t, rng.ints)
}

func TestGenWithoutBonus(t *testing.T) {
	gc := tinyConfig(t)
	rng := &script{ints: []int{0, 0, 1}, floats: []float64{0.2}}
	mg, err := NewMatrixGenerator(core.New(rng), gc, sampler.KindCumulative)
	require.NoError(t, err)

	g, idx := mg.GenGrid()
	assert.Equal(t, -1, idx)
	assert.Equal(t, []string{"C", "B"}, g.Cells)
}

func demoConfig(t *testing.T) *spec.GameConfig {
	t.Helper()
	gc, err := spec.LoadFS(demo_configs.FS, demo_configs.JSON)
	require.NoError(t, err)
	return gc
}

func TestGenStatistics(t *testing.T) {
	gc := demoConfig(t)
	for _, kind := range []sampler.Kind{sampler.KindCumulative, sampler.KindLUT, sampler.KindAlias} {
		t.Run(kind.String(), func(t *testing.T) {
			mg, err := NewMatrixGenerator(core.New(core.Default().New(42)), gc, kind)
			require.NoError(t, err)

			const rounds = 50_000
			g := buf.NewGrid(gc.Rows, gc.Columns)
			bonusRounds := 0
			countA := 0
			standardCells := 0
			for range rounds {
				idx := mg.Gen(g)
				bonusCells := 0
				for i, s := range g.Cells {
					sym, ok := gc.Symbol(s)
					require.True(t, ok, "unknown symbol %q", s)
					if sym.Type == spec.Bonus {
						bonusCells++
						assert.Equal(t, idx, i)
						continue
					}
					standardCells++
					if s == "A" {
						countA++
					}
				}
				require.LessOrEqual(t, bonusCells, 1)
				if idx >= 0 {
					bonusRounds++
				}
			}
			assert.InDelta(t, 0.2, float64(bonusRounds)/rounds, 0.01)
			// A 權重 1/21
			assert.InDelta(t, 1.0/21.0, float64(countA)/float64(standardCells), 0.003)
		})
	}
}

func TestGenDeterministic(t *testing.T) {
	gc := demoConfig(t)
	a, err := NewMatrixGenerator(core.New(core.Default().New(7)), gc, sampler.KindCumulative)
	require.NoError(t, err)
	b, err := NewMatrixGenerator(core.New(core.Default().New(7)), gc, sampler.KindCumulative)
	require.NoError(t, err)
	for range 500 {
		ga, ia := a.GenGrid()
		gb, ib := b.GenGrid()
		require.Equal(t, ga.Cells, gb.Cells)
		require.Equal(t, ia, ib)
	}
}

func TestNewMatrixGeneratorNilCore(t *testing.T) {
	_, err := NewMatrixGenerator(nil, tinyConfig(t), sampler.KindCumulative)
	assert.Error(t, err)
}
