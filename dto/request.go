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

package dto

import (
	"github.com/zintix-labs/scratchlab/corefmt"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/calc"
)

// PlayRequest 單局請求。
//
// StartB64U 為空代表新局；帶入當初記錄的 start_b64u 可在相同設定下重現該局，
// 帶入上一局的 after_b64u 則延續同一條亂數流。
type PlayRequest struct {
	Bet       float64 `json:"bet"`
	StartB64U string  `json:"start_b64u,omitempty"`
}

// Parse 檢查押注並解出快照，快照為 nil 代表新局
func (r PlayRequest) Parse() (float64, []byte, error) {
	if err := calc.CheckBet(r.Bet); err != nil {
		return 0, nil, err
	}
	if r.StartB64U == "" {
		return r.Bet, nil, nil
	}
	snap, err := corefmt.DecodeBase64URL(r.StartB64U)
	if err != nil {
		return 0, nil, err
	}
	if len(snap) == 0 {
		return 0, nil, errs.Argumentf("empty start snapshot")
	}
	return r.Bet, snap, nil
}
