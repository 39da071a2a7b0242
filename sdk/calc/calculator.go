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

// Package calc 盤面評估與獎金計算。
package calc

import (
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/spec"
)

type combo struct {
	Name string
	*spec.WinCombination
}

// Calculator 負責根據盤面計算輸贏結果。
// 建立後只讀設定，熱路徑的暫存區會重複使用，所以同一個 Calculator 不可併發使用。
type Calculator struct {
	cfg *spec.GameConfig

	// 依宣告順序拆好的組合
	sameCombos   []combo
	linearCombos []combo

	// ---------- 熱路徑暫存資料 ----------
	counts map[string]int
	order  []string // 圖標第一次出現的 row-major 順序
}

func NewCalculator(gc *spec.GameConfig) (*Calculator, error) {
	if err := gc.Init(); err != nil {
		return nil, err
	}
	c := &Calculator{
		cfg:    gc,
		counts: make(map[string]int, gc.Symbols.Len()),
		order:  make([]string, 0, gc.Symbols.Len()),
	}
	for name, wc := range gc.WinCombinations.All() {
		switch wc.When {
		case spec.SameSymbols:
			c.sameCombos = append(c.sameCombos, combo{Name: name, WinCombination: wc})
		case spec.LinearSymbols:
			c.linearCombos = append(c.linearCombos, combo{Name: name, WinCombination: wc})
		default:
			return nil, errs.Configf("win combination %q has unknown when", name)
		}
	}
	return c, nil
}

func (c *Calculator) Config() *spec.GameConfig {
	return c.cfg
}
