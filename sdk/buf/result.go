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

import "github.com/zintix-labs/scratchlab/spec"

// PlayResult 單局完整結果
type PlayResult struct {
	Bet          float64 // 當次押注
	Grid         *Grid   // 盤面
	Wins         Wins    // 各圖標成立的組合
	Bonus        string  // 盤面上找到的 bonus 圖標，空字串代表沒有
	BonusApplied bool    // bonus 是否實際改變了獎金
	Reward       float64 // 最終獎金
	StartSnap    []byte  // 開局前的 PRNG 狀態，可用於重現
	AfterSnap    []byte  // 結束後的 PRNG 狀態
}

// NewPlayResult 依設定配置盤面
func NewPlayResult(gc *spec.GameConfig) *PlayResult {
	return &PlayResult{
		Grid: NewGrid(gc.Rows, gc.Columns),
		Wins: make(Wins, 0, 4),
	}
}

func (p *PlayResult) HasBonus() bool {
	return p.Bonus != ""
}

// Reset 清空資料，保留已配置的容量
func (p *PlayResult) Reset() {
	p.Bet = 0
	p.Grid.Reset()
	p.Wins = p.Wins[:0]
	p.Bonus = ""
	p.BonusApplied = false
	p.Reward = 0
	p.StartSnap = p.StartSnap[:0]
	p.AfterSnap = p.AfterSnap[:0]
}
