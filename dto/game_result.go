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

// Package dto 對外輸出的資料結構。
package dto

import (
	"encoding/json"

	"github.com/zintix-labs/scratchlab/corefmt"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/buf"
)

// GameResult 單局結果文件，欄位名稱固定。
//
// AppliedWinningCombinations 永遠輸出物件 (沒中獎為 {})；
// AppliedBonusSymbol 為盤面上找到的 bonus 圖標，沒有時輸出 null。
type GameResult struct {
	Matrix                     [][]string          `json:"matrix"`
	Reward                     float64             `json:"reward"`
	AppliedWinningCombinations map[string][]string `json:"applied_winning_combinations"`
	AppliedBonusSymbol         *string             `json:"applied_bonus_symbol"`
}

// PlayState 單局前後的 PRNG 狀態，用於回放與續玩。
type PlayState struct {
	StartCoreSnapB64U string `json:"start_b64u"`
	AfterCoreSnapB64U string `json:"after_b64u"`
}

// NewGameResult 由內部結果轉出，不共用任何切片。
func NewGameResult(pr *buf.PlayResult) (GameResult, error) {
	if pr == nil || pr.Grid == nil {
		return GameResult{}, errs.NewWarn("play result is nil")
	}
	gr := GameResult{
		Matrix:                     pr.Grid.Matrix(),
		Reward:                     pr.Reward,
		AppliedWinningCombinations: pr.Wins.ToMap(),
	}
	if pr.HasBonus() {
		b := pr.Bonus
		gr.AppliedBonusSymbol = &b
	}
	return gr, nil
}

func NewPlayState(pr *buf.PlayResult) PlayState {
	return PlayState{
		StartCoreSnapB64U: corefmt.EncodeBase64URL(pr.StartSnap),
		AfterCoreSnapB64U: corefmt.EncodeBase64URL(pr.AfterSnap),
	}
}

// BonusSymbol 沒有 bonus 回傳 ""
func (gr GameResult) BonusSymbol() string {
	if gr.AppliedBonusSymbol == nil {
		return ""
	}
	return *gr.AppliedBonusSymbol
}

func DecodeGameResult(data []byte) (GameResult, error) {
	var gr GameResult
	if err := json.Unmarshal(data, &gr); err != nil {
		return GameResult{}, errs.Wrap(err, "decode game result failed")
	}
	if gr.AppliedWinningCombinations == nil {
		gr.AppliedWinningCombinations = map[string][]string{}
	}
	return gr, nil
}
