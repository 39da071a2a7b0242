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

// SymbolWin 單一圖標成立的組合名稱。
// Combos 至多兩個：same_symbols 在前，linear_symbols 在後。
type SymbolWin struct {
	Symbol string
	Combos []string
}

// Wins 依圖標第一次出現的 row-major 順序排列
type Wins []SymbolWin

func (w Wins) Empty() bool {
	return len(w) == 0
}

func (w Wins) Get(symbol string) ([]string, bool) {
	for _, sw := range w {
		if sw.Symbol == symbol {
			return sw.Combos, true
		}
	}
	return nil, false
}

// ToMap 輸出用，永遠回傳非 nil
func (w Wins) ToMap() map[string][]string {
	m := make(map[string][]string, len(w))
	for _, sw := range w {
		m[sw.Symbol] = append([]string(nil), sw.Combos...)
	}
	return m
}
