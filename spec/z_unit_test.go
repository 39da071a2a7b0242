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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zintix-labs/scratchlab/demo/demo_configs"
	"github.com/zintix-labs/scratchlab/errs"
)

const smallJSON = `{
  "columns": 2,
  "rows": 2,
  "symbols": {
    "B": {"reward_multiplier": 3, "type": "standard"},
    "A": {"reward_multiplier": 5, "type": "standard"},
    "10x": {"reward_multiplier": 10, "type": "bonus", "impact": "multiply_reward"}
  },
  "probabilities": {
    "standard_symbols": [
      {"column": 0, "row": 0, "symbols": {"B": 2, "A": 1}},
      {"column": 1, "row": 1, "symbols": {"A": 1}}
    ],
    "bonus_symbols": {"symbols": {"10x": 1}}
  },
  "win_combinations": {
    "same_symbol_2_times": {"reward_multiplier": 1, "when": "same_symbols", "count": 2, "group": "same_symbols"},
    "diagonal": {"reward_multiplier": 4, "when": "linear_symbols", "group": "diag", "covered_areas": [["0:0", "1:1"], ["0:1", "5:5"]]}
  }
}`

func TestLoadSmallConfig(t *testing.T) {
	gc, err := GetGameConfigByJSON([]byte(smallJSON))
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "A", "10x"}, gc.Symbols.Keys())
	assert.Equal(t, []string{"same_symbol_2_times", "diagonal"}, gc.WinCombinations.Keys())

	ten, ok := gc.Symbol("10x")
	require.True(t, ok)
	assert.Equal(t, Bonus, ten.Type)
	assert.Equal(t, MultiplyReward, ten.Impact)

	diag, ok := gc.Combination("diagonal")
	require.True(t, ok)
	assert.Equal(t, LinearSymbols, diag.When)
	assert.Equal(t, [][]Coord{{{0, 0}, {1, 1}}, {{0, 1}, {5, 5}}}, diag.CoveredAreas)

	require.Len(t, gc.CellTables, 2)
	assert.Equal(t, []string{"B", "A"}, gc.CellTables[0].Names)
	assert.Equal(t, []int{2, 1}, gc.CellTables[0].Weights)
	assert.Equal(t, []string{"10x"}, gc.BonusTable.Names)
	// (0,1) 與 (1,0) 沒有規則
	assert.Equal(t, []int{1, 2}, gc.Uncovered)
}

func TestDemoConfigJSONAndYAMLAgree(t *testing.T) {
	fromJSON, err := LoadFS(demo_configs.FS, demo_configs.JSON)
	require.NoError(t, err)
	fromYAML, err := LoadFS(demo_configs.FS, demo_configs.YAML)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"A", "B", "C", "D", "E", "F", "10x", "5x", "+1000", "+500", "MISS"},
		fromJSON.Symbols.Keys())
	assert.Equal(t, fromJSON.Symbols.Keys(), fromYAML.Symbols.Keys())
	assert.Equal(t, fromJSON.WinCombinations.Keys(), fromYAML.WinCombinations.Keys())
	assert.Equal(t, fromJSON.CellTables, fromYAML.CellTables)
	assert.Equal(t, fromJSON.BonusTable, fromYAML.BonusTable)
	assert.Empty(t, fromJSON.Uncovered)

	a, err := fromJSON.ToJSON()
	require.NoError(t, err)
	b, err := fromYAML.ToJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestConfigRoundTrip(t *testing.T) {
	gc, err := LoadFS(demo_configs.FS, demo_configs.JSON)
	require.NoError(t, err)

	js, err := gc.ToJSON()
	require.NoError(t, err)
	again, err := GetGameConfigByJSON(js)
	require.NoError(t, err)
	js2, err := again.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, string(js), string(js2))

	ys, err := gc.ToYAML()
	require.NoError(t, err)
	fromY, err := GetGameConfigByYAML(ys)
	require.NoError(t, err)
	js3, err := fromY.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, string(js), string(js3))
}

func TestLoadCompressed(t *testing.T) {
	raw, err := demo_configs.FS.ReadFile(demo_configs.JSON)
	require.NoError(t, err)
	dir := t.TempDir()

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	zst := enc.EncodeAll(raw, nil)
	require.NoError(t, enc.Close())
	zpath := filepath.Join(dir, "config.json.zst")
	require.NoError(t, os.WriteFile(zpath, zst, 0o644))

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	gpath := filepath.Join(dir, "config.JSON.gz")
	require.NoError(t, os.WriteFile(gpath, gz.Bytes(), 0o644))

	for _, p := range []string{zpath, gpath} {
		gc, err := LoadFile(p)
		require.NoError(t, err, p)
		assert.Equal(t, 11, gc.Symbols.Len())
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nonexistent.json"))
	assert.ErrorIs(t, err, errs.ErrConfig)
	assert.Contains(t, err.Error(), "nonexistent.json")

	_, err = LoadFS(demo_configs.FS, "embed.go")
	assert.ErrorIs(t, err, errs.ErrConfig)

	_, err = GetGameConfigByJSON([]byte(`{"columns": 3,`))
	assert.ErrorIs(t, err, errs.ErrConfig)

	_, err = GetGameConfigByYAML([]byte("columns: [1"))
	assert.ErrorIs(t, err, errs.ErrConfig)

	// 空文件：沒有盤面尺寸
	_, err = GetGameConfigByJSON([]byte(`{}`))
	assert.ErrorIs(t, err, errs.ErrConfig)
}

func TestInvalidConfigs(t *testing.T) {
	cases := map[string][2]string{
		"zero rows":            {`"rows": 2`, `"rows": 0`},
		"unknown type":         {`"type": "standard"}`, `"type": "wild"}`},
		"unknown impact":       {`"impact": "multiply_reward"`, `"impact": "double"`},
		"unknown when":         {`"when": "same_symbols"`, `"when": "scatter"`},
		"negative multiplier":  {`"reward_multiplier": 3,`, `"reward_multiplier": -3,`},
		"zero combo mult":      {`"reward_multiplier": 4,`, `"reward_multiplier": 0,`},
		"zero count":           {`"count": 2`, `"count": 0`},
		"unknown symbol":       {`{"B": 2, "A": 1}`, `{"B": 2, "Z": 1}`},
		"zero weight":          {`{"B": 2, "A": 1}`, `{"B": 0, "A": 1}`},
		"empty cell table":     {`{"B": 2, "A": 1}`, `{}`},
		"bonus in cell table":  {`{"B": 2, "A": 1}`, `{"B": 2, "10x": 1}`},
		"standard in bonus":    {`{"10x": 1}}`, `{"A": 1}}`},
		"empty bonus table":    {`{"10x": 1}}`, `{}}`},
		"cell out of bounds":   {`"column": 1, "row": 1`, `"column": 2, "row": 1`},
		"bad coordinate":       {`"0:0", "1:1"`, `"0-0", "1:1"`},
		"no covered areas":     {`"covered_areas": [["0:0", "1:1"], ["0:1", "5:5"]]`, `"covered_areas": []`},
		"no standard symbols":  {`"standard_symbols": [`, `"standard_symbols": [], "x": [`},
		"null symbol":          {`"A": {"reward_multiplier": 5, "type": "standard"}`, `"A": null`},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			doc := strings.Replace(smallJSON, c[0], c[1], 1)
			require.NotEqual(t, smallJSON, doc, "replacement did not apply")
			_, err := GetGameConfigByJSON([]byte(doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrConfig)
			assert.Equal(t, errs.Fatal, mustE(t, err).ErrLv)
		})
	}
}

func TestBonusWithoutImpactIsNoop(t *testing.T) {
	doc := strings.Replace(smallJSON, `, "impact": "multiply_reward"`, ``, 1)
	gc, err := GetGameConfigByJSON([]byte(doc))
	require.NoError(t, err)
	s, _ := gc.Symbol("10x")
	assert.Equal(t, ImpactNone, s.Impact)
}

func TestOrderedCodecs(t *testing.T) {
	var o Ordered[int]
	require.NoError(t, json.Unmarshal([]byte(`{"z": 1, "a": 2, "z": 3}`), &o))
	assert.Equal(t, []string{"z", "a"}, o.Keys())
	v, _ := o.Get("z")
	assert.Equal(t, 3, v)

	out, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Equal(t, `{"z":3,"a":2}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`null`), &o))
	assert.Equal(t, 0, o.Len())
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &o))

	built := NewOrdered(P("k2", 2), P("k1", 1))
	var keys []string
	for k := range built.All() {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"k2", "k1"}, keys)
	assert.Equal(t, []int{2, 1}, built.Values())
}

func TestParseCoord(t *testing.T) {
	c, err := ParseCoord(" 2 : 10 ")
	require.NoError(t, err)
	assert.Equal(t, Coord{Row: 2, Col: 10}, c)
	assert.Equal(t, "2:10", c.String())

	for _, bad := range []string{"", "1", "a:1", "1:b", "1;2"} {
		_, err := ParseCoord(bad)
		assert.ErrorIs(t, err, errs.ErrConfig, bad)
	}
}

func mustE(t *testing.T, err error) *errs.E {
	t.Helper()
	e, ok := errs.AsErr(err)
	require.True(t, ok)
	return e
}
